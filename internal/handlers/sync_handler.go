package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SPMS-2025/progress-service/internal/services"
	"github.com/SPMS-2025/progress-service/internal/utils"
)

type SyncHandler struct {
	BaseHandler
	service services.SyncService
}

func NewSyncHandler(service services.SyncService, logger utils.Logger) *SyncHandler {
	return &SyncHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SyncByHandle triggers an on-demand fetch + reconcile for one handle.
func (h *SyncHandler) SyncByHandle(c *gin.Context) {
	handle := c.Param("handle")
	h.LogRequest(c, "On-demand sync", "handle", handle)

	if err := h.service.SyncByHandle(c.Request.Context(), handle); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Synced successfully"})
}
