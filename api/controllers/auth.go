package controllers

import (
	"net/http"

	"github.com/Avannubo/subirananadons-backend/api/middleware"
	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/auth"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// Register opens a customer account.
func Register(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.RegisterInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		session, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// Login exchanges credentials for a token pair.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		session, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// Refresh rotates the refresh token and mints a new access token.
func Refresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.RefreshInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		session, err := svc.Refresh(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// Logout revokes the current session.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID, _ := middleware.AccessIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed out"})
	}
}
