package teacher

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/schoolhub/internal/app/models"
	"github.com/schoolhub/schoolhub/internal/pkg/config"
)

var _ Service = (*ServiceImpl)(nil)

// Service assembles the teacher dashboard aggregates.
type Service interface {
	TaughtCourses(ctx context.Context, teacherID uuid.UUID) ([]models.TaughtCourse, error)
	UpcomingClasses(ctx context.Context, teacherID uuid.UUID) ([]Occurrence, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repo
	cfg    *config.Config
	now    func() time.Time
}

func NewService(repo Repo, cfg *config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, cfg: cfg, now: time.Now}
}

func (s *ServiceImpl) TaughtCourses(ctx context.Context, teacherID uuid.UUID) ([]models.TaughtCourse, error) {
	courses, err := s.repo.ListCourses(ctx, teacherID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list taught courses", slog.String("teacherID", teacherID.String()), slog.Any("error", err))
		return nil, err
	}
	return courses, nil
}

// UpcomingClasses projects the teacher's weekly schedule onto concrete dates
// within the configured horizon.
func (s *ServiceImpl) UpcomingClasses(ctx context.Context, teacherID uuid.UUID) ([]Occurrence, error) {
	entries, err := s.repo.ListWeekdaySchedules(ctx, teacherID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list schedules", slog.String("teacherID", teacherID.String()), slog.Any("error", err))
		return nil, err
	}

	return ProjectOccurrences(entries, s.now(), s.cfg.Dashboard.HorizonDays), nil
}
