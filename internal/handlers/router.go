package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SPMS-2025/progress-service/internal/services"
	"github.com/SPMS-2025/progress-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	studentHandler *StudentHandler
	syncHandler    *SyncHandler
	contactHandler *ContactHandler
	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		studentHandler: NewStudentHandler(serviceManager.Student(), serviceManager.Export(), logger),
		syncHandler:    NewSyncHandler(serviceManager.Sync(), logger),
		contactHandler: NewContactHandler(serviceManager.Contact(), logger),
		authMiddleware: NewJWTAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/signup", hm.authHandler.Signup)
		api.POST("/signin", hm.authHandler.Signin)
		api.POST("/contact", hm.contactHandler.SubmitContact)

		// Authenticated routes
		auth := api.Group("")
		auth.Use(hm.authMiddleware.AuthMiddleware())
		{
			students := auth.Group("/student")
			{
				students.POST("", hm.studentHandler.CreateStudent)
				students.GET("", hm.studentHandler.ListStudents)
				students.GET("/export", hm.studentHandler.ExportStudents)
				students.GET("/:id", hm.studentHandler.GetStudent)
				students.PUT("/:id", hm.studentHandler.UpdateStudent)
				students.DELETE("/:id", hm.studentHandler.DeleteStudent)
				students.PATCH("/:id/toggle-reminder", hm.studentHandler.ToggleReminder)
				students.GET("/:id/sync-logs", hm.studentHandler.GetSyncLogs)
			}

			auth.GET("/sync/:handle", hm.syncHandler.SyncByHandle)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "progress-service",
	})
}
