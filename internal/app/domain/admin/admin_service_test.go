package admin

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

// MockAdminRepo is a mock implementation of the Repo interface
type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockAdminRepo) RecentCourses(ctx context.Context, limit int) ([]models.CourseSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CourseSummary), args.Error(1)
}

func newAdminTestService(repo Repo) *ServiceImpl {
	cfg := &config.Config{}
	cfg.Dashboard.RecentCoursesLimit = 5
	cfg.Dashboard.CacheTTL = time.Minute
	return NewService(repo, cfg, slog.Default())
}

func TestUserCounts(t *testing.T) {
	t.Run("ZeroFillsMissingRoles", func(t *testing.T) {
		mockRepo := new(MockAdminRepo)
		service := newAdminTestService(mockRepo)
		ctx := context.Background()

		// No admin rows come back from storage.
		mockRepo.On("CountUsersByRole", ctx).Return(map[string]int{
			models.RoleStudent: 10,
			models.RoleTeacher: 3,
		}, nil).Once()

		counts, err := service.UserCounts(ctx)

		require.NoError(t, err)
		assert.Equal(t, &models.RoleCounts{Students: 10, Teachers: 3, Admins: 0}, counts)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SecondCallServedFromCache", func(t *testing.T) {
		mockRepo := new(MockAdminRepo)
		service := newAdminTestService(mockRepo)
		ctx := context.Background()

		mockRepo.On("CountUsersByRole", ctx).Return(map[string]int{
			models.RoleStudent: 1,
		}, nil).Once()

		first, err := service.UserCounts(ctx)
		require.NoError(t, err)

		second, err := service.UserCounts(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNumberOfCalls(t, "CountUsersByRole", 1)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockAdminRepo)
		service := newAdminTestService(mockRepo)
		ctx := context.Background()

		mockRepo.On("CountUsersByRole", ctx).Return(nil, errors.New("database error")).Once()

		counts, err := service.UserCounts(ctx)

		assert.Error(t, err)
		assert.Nil(t, counts)
		mockRepo.AssertExpectations(t)
	})
}

func TestRecentCourses(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAdminRepo)
		service := newAdminTestService(mockRepo)
		ctx := context.Background()

		expected := []models.CourseSummary{
			{ID: uuid.New(), Name: "Algebra II", TeacherName: "Ms. Rivera", StudentCount: 24},
			{ID: uuid.New(), Name: "Biology", TeacherName: "Mr. Chen", StudentCount: 18},
		}
		mockRepo.On("RecentCourses", ctx, 5).Return(expected, nil).Once()

		courses, err := service.RecentCourses(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, courses)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SecondCallServedFromCache", func(t *testing.T) {
		mockRepo := new(MockAdminRepo)
		service := newAdminTestService(mockRepo)
		ctx := context.Background()

		mockRepo.On("RecentCourses", ctx, 5).Return([]models.CourseSummary{}, nil).Once()

		_, err := service.RecentCourses(ctx)
		require.NoError(t, err)
		_, err = service.RecentCourses(ctx)
		require.NoError(t, err)

		mockRepo.AssertNumberOfCalls(t, "RecentCourses", 1)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockAdminRepo)
		service := newAdminTestService(mockRepo)
		ctx := context.Background()

		mockRepo.On("RecentCourses", ctx, 5).Return(nil, errors.New("database error")).Once()

		courses, err := service.RecentCourses(ctx)

		assert.Error(t, err)
		assert.Nil(t, courses)
		mockRepo.AssertExpectations(t)
	})
}
