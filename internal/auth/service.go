package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/auth"
	"github.com/Avannubo/subirananadons-backend/pkg/auth/session"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid email or password"

type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Resolve(ctx context.Context, refreshToken string) (string, error)
	Rotate(ctx context.Context, refreshToken, newAccessID string) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service handles account registration and session lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
	Refresh(ctx context.Context, input RefreshInput) (SessionDTO, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	users    userStore
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(users userStore, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user store is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	email := normalizeEmail(input.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "update last login failed")
	}

	return s.openSession(ctx, user)
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (SessionDTO, error) {
	accessID, err := s.sessions.Resolve(ctx, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired, sign in again")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve refresh token")
	}

	userID, _, err := splitAccessID(accessID)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse session id")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired, sign in again")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	now := s.now()
	jti := uuid.NewString()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Rotate(ctx, input.RefreshToken, ComposeAccessID(user.ID, jti))
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired, sign in again")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	return s.sessionDTO(user, accessToken, refreshToken, now), nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (SessionDTO, error) {
	now := s.now()
	jti := uuid.NewString()

	accessToken, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, ComposeAccessID(user.ID, jti))
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	return s.sessionDTO(user, accessToken, refreshToken, now), nil
}

func (s *service) sessionDTO(user *models.User, accessToken, refreshToken string, now time.Time) SessionDTO {
	return SessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		User: UserDTO{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			LastName: user.LastName,
			Role:     user.Role,
		},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ComposeAccessID joins the user id and the token jti into the session key
// used by the redis-backed session manager.
func ComposeAccessID(userID uuid.UUID, jti string) string {
	return userID.String() + "." + jti
}

func splitAccessID(accessID string) (uuid.UUID, string, error) {
	userPart, jti, ok := strings.Cut(accessID, ".")
	if !ok {
		return uuid.Nil, "", fmt.Errorf("malformed access id %q", accessID)
	}
	userID, err := uuid.Parse(userPart)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("malformed access id: %w", err)
	}
	return userID, jti, nil
}
