package admin

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/schoolhub/schoolhub/internal/app/models"
	"github.com/schoolhub/schoolhub/internal/pkg/config"
)

const (
	userCountsCacheKey    = "admin:user-counts"
	recentCoursesCacheKey = "admin:recent-courses"
)

var _ Service = (*ServiceImpl)(nil)

// Service assembles the admin dashboard aggregates. Results are cached
// in-process for the configured TTL; both aggregates are read-mostly and a
// short staleness window is acceptable.
type Service interface {
	UserCounts(ctx context.Context) (*models.RoleCounts, error)
	RecentCourses(ctx context.Context) ([]models.CourseSummary, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repo
	cfg    *config.Config
	cache  *gocache.Cache
}

func NewService(repo Repo, cfg *config.Config, logger *slog.Logger) *ServiceImpl {
	ttl := cfg.Dashboard.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// UserCounts returns the identity population grouped by role. Every role
// bucket is present in the result, zero included.
func (s *ServiceImpl) UserCounts(ctx context.Context) (*models.RoleCounts, error) {
	if cached, found := s.cache.Get(userCountsCacheKey); found {
		counts := cached.(models.RoleCounts)
		return &counts, nil
	}

	byRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count users by role", slog.Any("error", err))
		return nil, err
	}

	counts := models.RoleCounts{
		Students: byRole[models.RoleStudent],
		Teachers: byRole[models.RoleTeacher],
		Admins:   byRole[models.RoleAdmin],
	}
	s.cache.SetDefault(userCountsCacheKey, counts)
	return &counts, nil
}

func (s *ServiceImpl) RecentCourses(ctx context.Context) ([]models.CourseSummary, error) {
	if cached, found := s.cache.Get(recentCoursesCacheKey); found {
		return cached.([]models.CourseSummary), nil
	}

	courses, err := s.repo.RecentCourses(ctx, s.cfg.Dashboard.RecentCoursesLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch recent courses", slog.Any("error", err))
		return nil, err
	}

	s.cache.SetDefault(recentCoursesCacheKey, courses)
	return courses, nil
}
