package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehular0ra/propfinder/internal/apperr"
)

func perform(t *testing.T, handler fiber.Handler) (int, Envelope) {
	t.Helper()
	app := fiber.New()
	app.Get("/test", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp.StatusCode, envelope
}

func TestOK(t *testing.T) {
	status, envelope := perform(t, func(c *fiber.Ctx) error {
		return OK(c, "done", fiber.Map{"value": 42})
	})

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)
	assert.Equal(t, "done", envelope.Message)
}

func TestCreated(t *testing.T) {
	status, envelope := perform(t, func(c *fiber.Ctx) error {
		return Created(c, "created", nil)
	})

	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, envelope.Success)
}

func TestErrorClassified(t *testing.T) {
	status, envelope := perform(t, func(c *fiber.Ctx) error {
		return Error(c, zerolog.Nop(), apperr.New(apperr.CodeNotFound, "Property not found"))
	})

	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Property not found", envelope.Message)
}

func TestErrorValidationFields(t *testing.T) {
	status, envelope := perform(t, func(c *fiber.Ctx) error {
		return Error(c, zerolog.Nop(), apperr.Validation(map[string]string{"phone": "is required"}))
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "is required", envelope.Errors["phone"])
}

func TestErrorInternalHidesCause(t *testing.T) {
	status, envelope := perform(t, func(c *fiber.Ctx) error {
		return Error(c, zerolog.Nop(), errors.New("users collection: connection reset"))
	})

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", envelope.Message)
	assert.NotContains(t, envelope.Message, "connection reset")
}
