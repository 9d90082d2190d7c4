package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errMissing = stderrors.New("missing")

func TestFromError(t *testing.T) {
	mappings := []Mapping{
		{Target: errMissing, Type: ErrorTypeNotFound, StatusCode: http.StatusNotFound},
	}

	tests := []struct {
		name           string
		err            error
		expectedType   ErrorType
		expectedStatus int
		expectedMsg    string
	}{
		{"Mapped", errMissing, ErrorTypeNotFound, http.StatusNotFound, "missing"},
		{"Wrapped mapped", fmt.Errorf("lookup: %w", errMissing), ErrorTypeNotFound, http.StatusNotFound, "missing"},
		{"Unknown", stderrors.New("password=hunter2"), ErrorTypeInternal, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromError(tt.err, mappings)
			assert.Equal(t, tt.expectedType, appErr.Type)
			assert.Equal(t, tt.expectedStatus, appErr.StatusCode)
			assert.Equal(t, tt.expectedMsg, appErr.Message)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromError_PassesAppErrorThrough(t *testing.T) {
	original := NewValidationError("bad body", nil)
	assert.Same(t, original, FromError(fmt.Errorf("decode: %w", original), nil))
}

func TestNewNotFoundError(t *testing.T) {
	appErr := NewNotFoundError("Endpoint not found")
	assert.Equal(t, ErrorTypeNotFound, appErr.Type)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "authentication: missing token", NewAuthenticationError("missing token").Error())
	assert.Equal(t, "internal: boom (disk full)", NewInternalError("boom", stderrors.New("disk full")).Error())
}
