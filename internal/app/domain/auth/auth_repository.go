package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/schoolhub/schoolhub/internal/app/models"
	database "github.com/schoolhub/schoolhub/internal/db"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// GetUserByEmail fetches the identity needed for credential verification.
	GetUserByEmail(ctx context.Context, email string) (*models.Identity, error)
	// GetUserByID fetches the identity by primary key.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.Identity, error)
	// Register stores a new identity with a HASHED password. Returns the new id.
	Register(ctx context.Context, name, email, hashedPassword, role string) (uuid.UUID, error)

	// --- Refresh Token Handling ---
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// ValidateRefreshTokenAndGetUserID resolves a live token to its owner.
	// A revoked token returns the owner together with ErrForbidden; missing
	// or expired tokens return ErrUnauthenticated.
	ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (uuid.UUID, error)
	InvalidateRefreshToken(ctx context.Context, refreshToken string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresAuthRepo(db database.Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

// GetUserByEmail implements AuthRepo.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var user models.Identity
	query := `SELECT id, name, email, password_hash, role FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by email", slog.Any("error", err), slog.String("email", email))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}

// GetUserByID implements AuthRepo.
func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.Identity, error) {
	var user models.Identity
	query := `SELECT id, name, email, password_hash, role FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with ID %s not found: %w", userID, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by ID", slog.Any("error", err), slog.String("userID", userID.String()))
		return nil, fmt.Errorf("database error fetching user by ID: %w", err)
	}
	return &user, nil
}

// Register implements AuthRepo. Expects a HASHED password.
func (r *PostgresAuthRepo) Register(ctx context.Context, name, email, hashedPassword, role string) (uuid.UUID, error) {
	tracer := otel.Tracer("schoolhub")
	ctx, span := tracer.Start(ctx, "PostgresAuthRepo.Register", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
	defer span.End()

	var userID uuid.UUID
	query := `INSERT INTO users (name, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query, name, email, hashedPassword, role, time.Now()).Scan(&userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("email already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error inserting user", slog.Any("error", err), slog.String("email", email))
		return uuid.Nil, fmt.Errorf("database error registering user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	r.logger.InfoContext(ctx, "User registered successfully", slog.String("userID", userID.String()))
	return userID, nil
}

// StoreRefreshToken implements AuthRepo.
func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, token, userID, expiresAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error storing refresh token", slog.Any("error", err), slog.String("userID", userID.String()))
		return fmt.Errorf("database error storing refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshTokenAndGetUserID implements AuthRepo.
func (r *PostgresAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	var revokedAt *time.Time

	query := `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = $1`
	err := r.db.QueryRow(ctx, query, refreshToken).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("refresh token not found: %w", models.ErrUnauthenticated)
		}
		r.logger.ErrorContext(ctx, "Error querying refresh token", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("database error validating refresh token: %w", err)
	}

	// A revoked token that still maps to a user is a replay of a rotated
	// token. Report the owner so the service can revoke the whole family.
	if revokedAt != nil {
		return userID, fmt.Errorf("refresh token has been revoked: %w", models.ErrForbidden)
	}
	if time.Now().After(expiresAt) {
		return uuid.Nil, fmt.Errorf("refresh token has expired: %w", models.ErrUnauthenticated)
	}

	return userID, nil
}

// InvalidateRefreshToken implements AuthRepo.
func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`
	tag, err := r.db.Exec(ctx, query, refreshToken)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error invalidating refresh token", slog.Any("error", err))
		return fmt.Errorf("database error invalidating token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Refresh token not found or already invalidated")
	}
	return nil
}

// InvalidateAllUserRefreshTokens implements AuthRepo.
func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error invalidating all refresh tokens for user", slog.Any("error", err), slog.String("userID", userID.String()))
		return fmt.Errorf("database error invalidating tokens: %w", err)
	}
	return nil
}
