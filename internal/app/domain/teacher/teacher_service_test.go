package teacher

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/schoolhub/internal/app/models"
	"github.com/schoolhub/schoolhub/internal/pkg/config"
)

// MockTeacherRepo is a mock implementation of the Repo interface
type MockTeacherRepo struct {
	mock.Mock
}

func (m *MockTeacherRepo) ListCourses(ctx context.Context, teacherID uuid.UUID) ([]models.TaughtCourse, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaughtCourse), args.Error(1)
}

func (m *MockTeacherRepo) ListWeekdaySchedules(ctx context.Context, teacherID uuid.UUID) ([]ScheduleEntry, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ScheduleEntry), args.Error(1)
}

func newTestService(repo Repo, now func() time.Time) *ServiceImpl {
	cfg := &config.Config{}
	cfg.Dashboard.HorizonDays = 7
	svc := NewService(repo, cfg, slog.Default())
	svc.now = now
	return svc
}

func TestTaughtCourses(t *testing.T) {
	teacherID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTeacherRepo)
		service := newTestService(mockRepo, time.Now)
		ctx := context.Background()

		expected := []models.TaughtCourse{
			{ID: uuid.New(), Name: "Algebra II", StudentCount: 24},
			{ID: uuid.New(), Name: "Geometry", StudentCount: 18},
		}
		mockRepo.On("ListCourses", ctx, teacherID).Return(expected, nil).Once()

		courses, err := service.TaughtCourses(ctx, teacherID)

		assert.NoError(t, err)
		assert.Equal(t, expected, courses)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockTeacherRepo)
		service := newTestService(mockRepo, time.Now)
		ctx := context.Background()

		mockRepo.On("ListCourses", ctx, teacherID).Return(nil, errors.New("database error")).Once()

		courses, err := service.TaughtCourses(ctx, teacherID)

		assert.Error(t, err)
		assert.Nil(t, courses)
		mockRepo.AssertExpectations(t)
	})
}

func TestUpcomingClasses(t *testing.T) {
	teacherID := uuid.New()
	// Wednesday, 2025-06-11.
	fixedNow := func() time.Time { return time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC) }

	t.Run("ProjectsWithinHorizon", func(t *testing.T) {
		mockRepo := new(MockTeacherRepo)
		service := newTestService(mockRepo, fixedNow)
		ctx := context.Background()

		entries := []ScheduleEntry{
			{ID: uuid.New(), CourseName: "Algebra II", DayOfWeek: 3, StartTime: "09:00"},
			{ID: uuid.New(), CourseName: "Biology", DayOfWeek: 1, StartTime: "10:00"},
		}
		mockRepo.On("ListWeekdaySchedules", ctx, teacherID).Return(entries, nil).Once()

		occurrences, err := service.UpcomingClasses(ctx, teacherID)

		require.NoError(t, err)
		require.Len(t, occurrences, 2)
		assert.Equal(t, "2025-06-11", occurrences[0].Date)
		assert.Equal(t, "2025-06-16", occurrences[1].Date)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NoSchedules", func(t *testing.T) {
		mockRepo := new(MockTeacherRepo)
		service := newTestService(mockRepo, fixedNow)
		ctx := context.Background()

		mockRepo.On("ListWeekdaySchedules", ctx, teacherID).Return([]ScheduleEntry{}, nil).Once()

		occurrences, err := service.UpcomingClasses(ctx, teacherID)

		require.NoError(t, err)
		assert.Empty(t, occurrences)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockTeacherRepo)
		service := newTestService(mockRepo, fixedNow)
		ctx := context.Background()

		mockRepo.On("ListWeekdaySchedules", ctx, teacherID).Return(nil, errors.New("database error")).Once()

		occurrences, err := service.UpcomingClasses(ctx, teacherID)

		assert.Error(t, err)
		assert.Nil(t, occurrences)
		mockRepo.AssertExpectations(t)
	})
}
