package teacher

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

// GetCourses handles GET /api/teacher/courses.
func (h *Handler) GetCourses(c *gin.Context) {
	teacherID, ok := h.subject(c)
	if !ok {
		return
	}

	courses, err := h.service.TaughtCourses(c.Request.Context(), teacherID)
	if err != nil {
		h.logger.Error("Failed to fetch taught courses", zap.String("teacherID", teacherID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetUpcomingClasses handles GET /api/teacher/upcoming-classes.
func (h *Handler) GetUpcomingClasses(c *gin.Context) {
	teacherID, ok := h.subject(c)
	if !ok {
		return
	}

	occurrences, err := h.service.UpcomingClasses(c.Request.Context(), teacherID)
	if err != nil {
		h.logger.Error("Failed to project upcoming classes", zap.String("teacherID", teacherID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, occurrences)
}

func (h *Handler) subject(c *gin.Context) (uuid.UUID, bool) {
	teacherID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
		return uuid.Nil, false
	}
	return teacherID, true
}
