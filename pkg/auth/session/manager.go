package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Avannubo/subirananadons-backend/pkg/config"
	redisclient "github.com/Avannubo/subirananadons-backend/pkg/redis"
)

const refreshTokenBytes = 32

// ErrInvalidRefreshToken is returned when a refresh token is unknown or expired.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
	RefreshTokenKey(token string) string
}

// AccessSessionChecker is the read-only surface auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Manager handles refresh token creation, rotation, and revocation. One
// redis session entry exists per live access token id; refresh tokens map
// back to that id so a rotation can revoke its predecessor.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{store: client, keyer: client, ttl: ttl}, nil
}

// Generate creates a refresh token bound to the access token id and marks
// the session live.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}

	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}

	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), token, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.RefreshTokenKey(token), accessID, m.ttl); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// Resolve returns the access token id a refresh token is bound to.
func (m *Manager) Resolve(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", ErrInvalidRefreshToken
	}
	accessID, err := m.store.Get(ctx, m.keyer.RefreshTokenKey(refreshToken))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("load refresh token: %w", err)
	}
	return accessID, nil
}

// Rotate exchanges a refresh token for a fresh one bound to newAccessID,
// revoking the previous session.
func (m *Manager) Rotate(ctx context.Context, refreshToken, newAccessID string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" || strings.TrimSpace(newAccessID) == "" {
		return "", ErrInvalidRefreshToken
	}

	oldAccessID, err := m.store.Get(ctx, m.keyer.RefreshTokenKey(refreshToken))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("load refresh token: %w", err)
	}

	if err := m.store.Del(ctx, m.keyer.RefreshTokenKey(refreshToken), m.keyer.AccessSessionKey(oldAccessID)); err != nil {
		return "", fmt.Errorf("revoke previous session: %w", err)
	}

	return m.Generate(ctx, newAccessID)
}

// Revoke drops the session for the access token id along with its refresh
// token.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return nil
	}

	token, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil && !redisclient.IsNil(err) {
		return fmt.Errorf("load session: %w", err)
	}

	keys := []string{m.keyer.AccessSessionKey(accessID)}
	if token != "" {
		keys = append(keys, m.keyer.RefreshTokenKey(token))
	}
	return m.store.Del(ctx, keys...)
}

// HasSession reports whether the access token id still has a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if redisclient.IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
