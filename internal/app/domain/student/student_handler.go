package student

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/schoolhub/internal/app/middleware"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetCourses handles GET /api/student/courses.
func (h *Handler) GetCourses(c *gin.Context) {
	studentID, ok := h.subject(c)
	if !ok {
		return
	}

	courses, err := h.service.EnrolledCourses(c.Request.Context(), studentID)
	if err != nil {
		h.logger.Error("Failed to fetch student courses", zap.String("studentID", studentID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetAttendance handles GET /api/student/attendance.
func (h *Handler) GetAttendance(c *gin.Context) {
	studentID, ok := h.subject(c)
	if !ok {
		return
	}

	records, err := h.service.AttendanceHistory(c.Request.Context(), studentID)
	if err != nil {
		h.logger.Error("Failed to fetch attendance", zap.String("studentID", studentID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) subject(c *gin.Context) (uuid.UUID, bool) {
	studentID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
		return uuid.Nil, false
	}
	return studentID, true
}
