package responses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, map[string]any{"hello": "world"}, envelope.Data)
}

func TestWriteErrorValidationKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	WriteError(context.Background(), rec, testLogger(), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Equal(t, "email is required", envelope.Error.Message)
}

func TestWriteErrorHidesInternalText(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), rec, testLogger(), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotContains(t, envelope.Error.Message, "pq:")
}

func TestWriteErrorUnauthorizedKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	WriteError(context.Background(), rec, testLogger(), err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid email or password", envelope.Error.Message)
}
