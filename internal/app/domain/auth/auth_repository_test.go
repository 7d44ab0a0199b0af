package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/schoolhub/internal/app/models"
)

const refreshTokenQuery = `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = \$1`

func TestPostgresAuthRepoValidateRefreshToken(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresAuthRepo(mockPool, slog.Default())
	ownerID := uuid.New()

	t.Run("LiveToken", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(ownerID, time.Now().Add(time.Hour), (*time.Time)(nil))

		mockPool.ExpectQuery(refreshTokenQuery).
			WithArgs("live-token").
			WillReturnRows(rows)

		userID, err := repo.ValidateRefreshTokenAndGetUserID(context.Background(), "live-token")

		require.NoError(t, err)
		assert.Equal(t, ownerID, userID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("RevokedTokenReportsOwner", func(t *testing.T) {
		revokedAt := time.Now().Add(-time.Minute)
		rows := pgxmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(ownerID, time.Now().Add(time.Hour), &revokedAt)

		mockPool.ExpectQuery(refreshTokenQuery).
			WithArgs("revoked-token").
			WillReturnRows(rows)

		userID, err := repo.ValidateRefreshTokenAndGetUserID(context.Background(), "revoked-token")

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Equal(t, ownerID, userID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(ownerID, time.Now().Add(-time.Hour), (*time.Time)(nil))

		mockPool.ExpectQuery(refreshTokenQuery).
			WithArgs("expired-token").
			WillReturnRows(rows)

		userID, err := repo.ValidateRefreshTokenAndGetUserID(context.Background(), "expired-token")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.Equal(t, uuid.Nil, userID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("UnknownToken", func(t *testing.T) {
		mockPool.ExpectQuery(refreshTokenQuery).
			WithArgs("unknown-token").
			WillReturnError(pgx.ErrNoRows)

		userID, err := repo.ValidateRefreshTokenAndGetUserID(context.Background(), "unknown-token")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.Equal(t, uuid.Nil, userID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
