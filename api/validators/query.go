package validators

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

// PaginationParams reads limit and cursor query parameters.
func PaginationParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer")
		}
		params.Limit = limit
	}
	return params, nil
}

// BoolQuery reads an optional boolean query parameter.
func BoolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a boolean")
	}
	return value, nil
}

// UUIDParam parses a path or query segment as a UUID.
func UUIDParam(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a valid UUID")
	}
	return id, nil
}

// OptionalUUIDQuery parses an optional UUID query parameter.
func OptionalUUIDQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := UUIDParam(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
