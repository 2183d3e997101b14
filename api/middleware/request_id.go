package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id and binds it into the logger
// context so all downstream log lines carry it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := logg.WithRequestID(r.Context(), requestID)
			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
