package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/schoolhub/schoolhub/internal/app/models"
	"github.com/schoolhub/schoolhub/internal/pkg/config"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, user *models.Identity, err error)
	Register(ctx context.Context, name, email, password string) (uuid.UUID, error)
	RefreshSession(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.Identity, error)
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	cfg    *config.Config
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, cfg: cfg}
}

// Login validates credentials, generates an access token and stores a
// refresh token. An unknown email and a wrong password collapse into the
// same error so the response cannot be used for user enumeration.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, *models.Identity, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))
	l.DebugContext(ctx, "Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.WarnContext(ctx, "GetUserByEmail failed", slog.Any("error", err))
		return "", "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if !NewJWTService().CheckPassword(user.PasswordHash, password) {
		l.WarnContext(ctx, "Password comparison failed", slog.String("userID", user.ID.String()))
		return "", "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	accessToken, refreshToken, err := s.generateTokens(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate tokens", slog.String("userID", user.ID.String()), slog.Any("error", err))
		return "", "", nil, fmt.Errorf("internal error generating tokens: %w", err)
	}

	refreshExpiresAt := time.Now().Add(s.cfg.JWT.RefreshTokenTTL)
	err = s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt)
	if err != nil {
		l.ErrorContext(ctx, "Failed to store refresh token", slog.String("userID", user.ID.String()), slog.Any("error", err))
		return "", "", nil, fmt.Errorf("internal error storing session: %w", err)
	}

	l.InfoContext(ctx, "Login successful")
	return accessToken, refreshToken, user, nil
}

// Register hashes the password and stores a new STUDENT identity. Teacher
// and admin identities are provisioned out of band.
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (uuid.UUID, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", email))
	l.DebugContext(ctx, "Attempting registration")

	tracer := otel.Tracer("schoolhub")
	ctx, span := tracer.Start(ctx, "AuthService.Register", trace.WithAttributes(
		attribute.String("email", email),
	))
	defer span.End()

	hashedPassword, err := NewJWTService().HashPassword(password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return uuid.Nil, fmt.Errorf("could not process password")
	}

	userID, err := s.repo.Register(ctx, name, email, hashedPassword, models.RoleStudent)
	if err != nil {
		l.WarnContext(ctx, "Repository registration failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return uuid.Nil, fmt.Errorf("registration failed: %w", err)
	}

	l.InfoContext(ctx, "Registration successful", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return userID, nil
}

// RefreshSession validates a refresh token, generates new tokens and rotates
// the refresh token.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	l := s.logger.With(slog.String("method", "RefreshSession"))
	l.DebugContext(ctx, "Attempting token refresh")

	userID, err := s.repo.ValidateRefreshTokenAndGetUserID(ctx, refreshToken)
	if err != nil {
		// Replay of a rotated token: every token the user holds may be
		// compromised, so the whole family is revoked.
		if errors.Is(err, models.ErrForbidden) && userID != uuid.Nil {
			l.WarnContext(ctx, "Revoked refresh token replayed, revoking all user tokens", slog.String("userID", userID.String()))
			if rerr := s.repo.InvalidateAllUserRefreshTokens(ctx, userID); rerr != nil {
				l.ErrorContext(ctx, "Failed to revoke user refresh tokens after replay", slog.Any("error", rerr))
			}
		} else {
			l.WarnContext(ctx, "Refresh token validation failed", slog.Any("error", err))
		}
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", models.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get user after refresh token validation", slog.String("userID", userID.String()), slog.Any("error", err))
		if rerr := s.repo.InvalidateRefreshToken(ctx, refreshToken); rerr != nil {
			l.WarnContext(ctx, "Failed to invalidate orphaned refresh token", slog.Any("error", rerr))
		}
		return "", "", fmt.Errorf("internal error retrieving user during refresh")
	}

	newAccessToken, newRefreshToken, err := s.generateTokens(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate new tokens", slog.String("userID", user.ID.String()), slog.Any("error", err))
		return "", "", fmt.Errorf("internal error generating tokens: %w", err)
	}

	refreshExpiresAt := time.Now().Add(s.cfg.JWT.RefreshTokenTTL)
	err = s.repo.StoreRefreshToken(ctx, user.ID, newRefreshToken, refreshExpiresAt)
	if err != nil {
		l.ErrorContext(ctx, "Failed to store new refresh token", slog.String("userID", user.ID.String()), slog.Any("error", err))
		return "", "", fmt.Errorf("internal error storing new session: %w", err)
	}

	// Rotation: the old token must not remain usable.
	err = s.repo.InvalidateRefreshToken(ctx, refreshToken)
	if err != nil {
		l.WarnContext(ctx, "Failed to invalidate old refresh token during rotation", slog.String("userID", user.ID.String()), slog.Any("error", err))
	}

	l.InfoContext(ctx, "Token refresh successful", slog.String("userID", user.ID.String()))
	return newAccessToken, newRefreshToken, nil
}

// Logout invalidates the provided refresh token. Access tokens stay valid
// until expiry; discarding them is the client's responsibility.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(slog.String("method", "Logout"))
	err := s.repo.InvalidateRefreshToken(ctx, refreshToken)
	if err != nil {
		l.ErrorContext(ctx, "Failed to invalidate refresh token", slog.Any("error", err))
	}
	l.InfoContext(ctx, "Logout successful")
	return nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.Identity, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch user by ID", slog.String("userID", userID.String()), slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (s *AuthServiceImpl) generateTokens(user *models.Identity) (accessToken string, refreshToken string, err error) {
	jwtConfig := JWTConfig{
		SecretKey:       s.cfg.JWT.SecretKey,
		TokenExpiration: s.cfg.JWT.AccessTokenTTL,
		Issuer:          s.cfg.JWT.Issuer,
		Audience:        s.cfg.JWT.Audience,
	}

	accessToken, err = NewJWTService().GenerateToken(jwtConfig, user.ID.String(), user.Email, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	// Opaque refresh token, validated against storage instead of a signature.
	refreshToken = uuid.NewString()
	return accessToken, refreshToken, nil
}
