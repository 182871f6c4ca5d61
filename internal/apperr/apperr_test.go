package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs(t *testing.T) {
	err := New(CodeNotFound, "Property not found")
	assert.Equal(t, err, As(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, err, As(wrapped))

	assert.Nil(t, As(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeInternal, "Internal server error", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(CodeValidation))
	assert.Equal(t, http.StatusBadRequest, Status(CodeConflict))
	assert.Equal(t, http.StatusUnauthorized, Status(CodeUnauthorized))
	assert.Equal(t, http.StatusForbidden, Status(CodeForbidden))
	assert.Equal(t, http.StatusNotFound, Status(CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, Status(CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, Status(Code("unknown")))
}

func TestValidationFields(t *testing.T) {
	err := Validation(map[string]string{"phone": "is required"})
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "is required", err.Fields["phone"])
}
