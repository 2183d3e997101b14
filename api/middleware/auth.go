package middleware

import (
	"net/http"
	"strings"

	"github.com/Avannubo/subirananadons-backend/api/responses"
	internalauth "github.com/Avannubo/subirananadons-backend/internal/auth"
	"github.com/Avannubo/subirananadons-backend/pkg/auth"
	"github.com/Avannubo/subirananadons-backend/pkg/auth/session"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

const bearerPrefix = "Bearer "

// Authenticate validates the bearer token and its live session, then puts
// the identity on the request context.
func Authenticate(jwtCfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := auth.ParseAccessToken(jwtCfg, strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			accessID := internalauth.ComposeAccessID(claims.UserID, claims.ID)
			live, err := sessions.HasSession(r.Context(), accessID)
			if err != nil {
				responses.WriteError(r.Context(), w, logg, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session"))
				return
			}
			if !live {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked"))
				return
			}

			ctx := withIdentity(r.Context(), claims.UserID, claims.Role, accessID)
			ctx = logg.WithUserID(ctx, claims.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MaybeAuthenticate is the guest-friendly variant: a valid token attaches
// identity, anything else passes through anonymously.
func MaybeAuthenticate(jwtCfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseAccessToken(jwtCfg, strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			accessID := internalauth.ComposeAccessID(claims.UserID, claims.ID)
			live, err := sessions.HasSession(r.Context(), accessID)
			if err != nil || !live {
				next.ServeHTTP(w, r)
				return
			}

			ctx := withIdentity(r.Context(), claims.UserID, claims.Role, accessID)
			ctx = logg.WithUserID(ctx, claims.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
