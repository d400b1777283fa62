package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SPMS-2025/progress-service/internal/services"
	"github.com/SPMS-2025/progress-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
	export  services.ExportService
}

func NewStudentHandler(service services.StudentService, export services.ExportService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// CreateStudent adds a student to the tracked roster.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.StudentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	h.LogRequest(c, "Creating student", "handle", req.CodeforcesHandle)

	student, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// ListStudents returns the roster ordered by creation time, newest first.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	students, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetStudent returns one student with contest history and submissions.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Getting student", "student_id", id)

	student, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudent mutates an existing student.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")

	var req services.StudentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	h.LogRequest(c, "Updating student", "student_id", id)

	student, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student and its owned history rows.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting student", "student_id", id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Deleted"})
}

// ToggleReminder flips the emailRemindersEnabled flag.
func (h *StudentHandler) ToggleReminder(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Toggling reminders", "student_id", id)

	resp, err := h.service.ToggleReminders(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSyncLogs returns recent sync outcomes for a student.
func (h *StudentHandler) GetSyncLogs(c *gin.Context) {
	id := c.Param("id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	h.LogRequest(c, "Listing sync logs", "student_id", id)

	logs, err := h.service.SyncLogs(c.Request.Context(), id, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// ExportStudents streams the roster as an .xlsx workbook.
func (h *StudentHandler) ExportStudents(c *gin.Context) {
	h.LogRequest(c, "Exporting students")

	buf, err := h.export.ExportStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
