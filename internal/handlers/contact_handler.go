package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SPMS-2025/progress-service/internal/services"
	"github.com/SPMS-2025/progress-service/internal/utils"
)

type ContactHandler struct {
	BaseHandler
	service services.ContactService
}

func NewContactHandler(service services.ContactService, logger utils.Logger) *ContactHandler {
	return &ContactHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SubmitContact relays a contact-form message.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "All fields are required"})
		return
	}

	h.LogRequest(c, "Contact form submission", "from", req.Email)

	if err := h.service.Submit(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Thank you for your message! We will get back to you soon.",
	})
}
