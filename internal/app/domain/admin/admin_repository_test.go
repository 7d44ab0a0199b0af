package admin

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/schoolhub/internal/app/models"
)

func TestPostgresAdminRepoCountUsersByRole(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresAdminRepo(mockPool, slog.Default())

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"role", "count"}).
			AddRow(models.RoleStudent, 42).
			AddRow(models.RoleTeacher, 7)

		mockPool.ExpectQuery(`SELECT role, COUNT\(\*\) FROM users GROUP BY role`).
			WillReturnRows(rows)

		counts, err := repo.CountUsersByRole(context.Background())

		require.NoError(t, err)
		assert.Equal(t, map[string]int{models.RoleStudent: 42, models.RoleTeacher: 7}, counts)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT role, COUNT\(\*\) FROM users GROUP BY role`).
			WillReturnError(errors.New("connection refused"))

		counts, err := repo.CountUsersByRole(context.Background())

		assert.Error(t, err)
		assert.Nil(t, counts)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAdminRepoRecentCourses(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresAdminRepo(mockPool, slog.Default())

	t.Run("Success", func(t *testing.T) {
		courseID := uuid.New()
		createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		rows := pgxmock.NewRows([]string{"id", "name", "teacher_name", "student_count", "created_at"}).
			AddRow(courseID, "Algebra II", "Ms. Rivera", 24, createdAt)

		mockPool.ExpectQuery(`SELECT c\.id, c\.name, u\.name AS teacher_name, COUNT\(e\.id\) AS student_count, c\.created_at FROM courses c`).
			WillReturnRows(rows)

		courses, err := repo.RecentCourses(context.Background(), 5)

		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, courseID, courses[0].ID)
		assert.Equal(t, "Ms. Rivera", courses[0].TeacherName)
		assert.Equal(t, 24, courses[0].StudentCount)
		assert.Equal(t, createdAt, courses[0].CreatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT c\.id, c\.name, u\.name AS teacher_name`).
			WillReturnError(errors.New("connection refused"))

		courses, err := repo.RecentCourses(context.Background(), 5)

		assert.Error(t, err)
		assert.Nil(t, courses)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
