package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
	accessIDKey contextKey = "accessID"
)

// UserIDFromContext returns the authenticated user's id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// RoleFromContext returns the authenticated user's role, if any.
func RoleFromContext(ctx context.Context) (enums.UserRole, bool) {
	role, ok := ctx.Value(userRoleKey).(enums.UserRole)
	return role, ok
}

// AccessIDFromContext returns the session key of the current access token.
func AccessIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accessIDKey).(string)
	return id, ok
}

func withIdentity(ctx context.Context, userID uuid.UUID, role enums.UserRole, accessID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userRoleKey, role)
	return context.WithValue(ctx, accessIDKey, accessID)
}
