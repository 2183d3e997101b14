package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// WriteSuccess writes a 200 envelope.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteSuccessStatus writes a success envelope with an explicit status.
func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: data})
}

// WriteError maps the error onto its HTTP shape. Unknown errors are
// reported as internal and never leak their text to the client.
func WriteError(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, err error) {
	appErr := pkgerrors.As(err)
	if appErr == nil {
		appErr = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(appErr.Code())

	message := meta.PublicMessage
	var details any
	if meta.DetailsAllowed {
		if appErr.Message() != "" {
			message = appErr.Message()
		}
		details = appErr.Details()
	}
	// Auth-flavored errors keep their specific message: "invalid email or
	// password" must reach the client as is.
	if appErr.Code() == pkgerrors.CodeUnauthorized && appErr.Message() != "" {
		message = appErr.Message()
	}

	if meta.HTTPStatus >= http.StatusInternalServerError {
		logg.Error(ctx, "request failed", err)
	} else {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(appErr.Code()),
			Message: message,
			Details: details,
		},
	})
}
