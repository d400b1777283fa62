package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SPMS-2025/progress-service/internal/services"
	"github.com/SPMS-2025/progress-service/internal/utils"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries shared handler behaviour.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a handler entry with request-scoped context.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// handleServiceError maps service errors onto HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrHandleNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrDuplicateStudent):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials"})
	case errors.Is(err, services.ErrFetchFailed),
		errors.Is(err, services.ErrPersistenceFailed):
		h.logger.Error("sync failure", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Message: err.Error()})
	default:
		h.logger.Error("internal error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
	}
}
