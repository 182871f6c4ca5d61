package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehular0ra/propfinder/internal/apperr"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(sampleRequest{Name: "Asha", Password: "secret123"}))
}

func TestStructOptionalEmailSkippedWhenEmpty(t *testing.T) {
	assert.NoError(t, Struct(sampleRequest{Name: "Asha", Password: "secret123", Email: ""}))
}

func TestStructFieldMessages(t *testing.T) {
	err := Struct(sampleRequest{Email: "not-an-email", Password: "abc"})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, "is required", appErr.Fields["name"])
	assert.Equal(t, "must be a valid email address", appErr.Fields["email"])
	assert.Equal(t, "must be at least 6 characters", appErr.Fields["password"])
}
