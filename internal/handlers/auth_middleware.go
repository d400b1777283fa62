package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SPMS-2025/progress-service/internal/services"
)

// JWTAuthMiddleware authenticates requests with a bearer token issued by the
// auth service and stores the user id on the request context.
type JWTAuthMiddleware struct {
	auth services.AuthService
}

func NewJWTAuthMiddleware(auth services.AuthService) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{auth: auth}
}

func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token missing"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid authorization header"})
			c.Abort()
			return
		}

		userID, err := m.auth.VerifyToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
