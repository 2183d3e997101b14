package middleware

import (
	"net/http"

	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// RequireRole gates a subtree behind a role. It must run after
// Authenticate.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := RoleFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if current != role {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
