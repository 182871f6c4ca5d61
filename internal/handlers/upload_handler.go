package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mehular0ra/propfinder/internal/apperr"
	"github.com/mehular0ra/propfinder/internal/httpx"
)

type imageStore interface {
	Put(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// UploadHandler stores listing images and returns their public URLs for
// use in a property's images array.
type UploadHandler struct {
	store imageStore
	log   zerolog.Logger
}

func NewUploadHandler(store imageStore, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return httpx.Error(c, h.log, apperr.Validation(map[string]string{"image": "is required"}))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return httpx.Error(c, h.log, apperr.Validation(map[string]string{"image": "must be an image file"}))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.Error(c, h.log, apperr.Wrap(apperr.CodeInternal, "Internal server error", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return httpx.Error(c, h.log, apperr.Wrap(apperr.CodeInternal, "Internal server error", err))
	}

	url, err := h.store.Put(c.Context(), fileHeader.Filename, data, contentType)
	if err != nil {
		return httpx.Error(c, h.log, apperr.Wrap(apperr.CodeInternal, "Internal server error", err))
	}
	return httpx.Created(c, "Image uploaded", fiber.Map{"url": url})
}
