package student

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/schoolhub/schoolhub/internal/app/models"
	"github.com/schoolhub/schoolhub/internal/pkg/config"
)

var _ Service = (*ServiceImpl)(nil)

// Service assembles the student dashboard aggregates. Reads only; any
// storage failure is terminal for the request.
type Service interface {
	EnrolledCourses(ctx context.Context, studentID uuid.UUID) ([]models.EnrolledCourse, error)
	AttendanceHistory(ctx context.Context, studentID uuid.UUID) ([]models.AttendanceRecord, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repo
	cfg    *config.Config
}

func NewService(repo Repo, cfg *config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, cfg: cfg}
}

func (s *ServiceImpl) EnrolledCourses(ctx context.Context, studentID uuid.UUID) ([]models.EnrolledCourse, error) {
	courses, err := s.repo.ListCourses(ctx, studentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list enrolled courses", slog.String("studentID", studentID.String()), slog.Any("error", err))
		return nil, err
	}
	return courses, nil
}

func (s *ServiceImpl) AttendanceHistory(ctx context.Context, studentID uuid.UUID) ([]models.AttendanceRecord, error) {
	records, err := s.repo.RecentAttendance(ctx, studentID, s.cfg.Dashboard.AttendanceLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch attendance history", slog.String("studentID", studentID.String()), slog.Any("error", err))
		return nil, err
	}
	return records, nil
}
