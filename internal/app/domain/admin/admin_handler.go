package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

// GetUserCount handles GET /api/admin/user-count.
func (h *Handler) GetUserCount(c *gin.Context) {
	counts, err := h.service.UserCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch user counts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetRecentCourses handles GET /api/admin/recent-courses.
func (h *Handler) GetRecentCourses(c *gin.Context) {
	courses, err := h.service.RecentCourses(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch recent courses", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, courses)
}
