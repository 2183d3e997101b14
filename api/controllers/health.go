package controllers

import (
	"context"
	"net/http"

	"github.com/Avannubo/subirananadons-backend/api/responses"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready reports whether the backing stores answer.
func Ready(db pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), w, logg, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		if err := cache.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), w, logg, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
