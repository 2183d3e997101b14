package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSONBody parses the request body into dst and runs the struct's
// validate tags. Every problem comes back as a validation error.
func DecodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid JSON body")
	}
	// A second document in the body means the payload is malformed.
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate request body")
		}

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, describeFieldError(fe))
			}
			return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(parts, "; "))
		}
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
