package httpx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mehular0ra/propfinder/internal/apperr"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

// Error maps a classified error to its status and envelope. Unclassified
// errors are logged with their cause and surfaced as a generic 500.
func Error(c *fiber.Ctx, log zerolog.Logger, err error) error {
	e := apperr.As(err)
	if e == nil {
		e = apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	if e.Code == apperr.CodeInternal {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(apperr.Status(e.Code)).JSON(Envelope{
			Success: false,
			Message: "Internal server error",
		})
	}
	return c.Status(apperr.Status(e.Code)).JSON(Envelope{
		Success: false,
		Message: e.Message,
		Errors:  e.Fields,
	})
}
