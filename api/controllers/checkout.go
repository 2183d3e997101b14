package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/api/middleware"
	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/checkout"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// Checkout submits the cart. Signed-in users get the order on their
// account; guests may open one inline via create_account.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input checkout.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var actorID *uuid.UUID
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			actorID = &userID
		}

		result, err := svc.Submit(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
