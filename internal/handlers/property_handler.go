package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mehular0ra/propfinder/internal/apperr"
	"github.com/mehular0ra/propfinder/internal/httpx"
	"github.com/mehular0ra/propfinder/internal/middleware"
	"github.com/mehular0ra/propfinder/internal/models"
	"github.com/mehular0ra/propfinder/internal/services"
	"github.com/mehular0ra/propfinder/internal/validation"
)

type propertyService interface {
	Search(ctx context.Context, p services.SearchParams) (services.SearchResult, error)
	GetOne(ctx context.Context, id string) (models.Property, error)
	Create(ctx context.Context, owner models.User, in services.CreateInput) (models.Property, error)
	Update(ctx context.Context, id string, in services.UpdateInput) (models.Property, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.Property, error)
}

// PropertyHandler exposes the /api/properties endpoints.
type PropertyHandler struct {
	svc propertyService
	log zerolog.Logger
}

func NewPropertyHandler(svc propertyService, log zerolog.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

type createPropertyRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	BHK         string   `json:"bhk"`
	Location    string   `json:"location" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Status      string   `json:"status" validate:"required"`
	Images      []string `json:"images"`
}

type updatePropertyRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Type        *string   `json:"type" validate:"omitempty,min=1"`
	BHK         *string   `json:"bhk"`
	Location    *string   `json:"location" validate:"omitempty,min=1"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Status      *string   `json:"status" validate:"omitempty,min=1"`
	Images      *[]string `json:"images"`
	IsActive    *bool     `json:"isActive"`
	IsApproved  *bool     `json:"isApproved"`
}

// Search is the public filtered, paginated listing search.
func (h *PropertyHandler) Search(c *fiber.Ctx) error {
	params := services.SearchParams{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 12),
		Location:  c.Query("location"),
		Type:      c.Query("type"),
		BHK:       c.Query("bhk"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxPrice = &v
		}
	}

	result, err := h.svc.Search(c.Context(), params)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", result)
}

// GetOne fetches one public listing, counting the view.
func (h *PropertyHandler) GetOne(c *fiber.Ctx) error {
	property, err := h.svc.GetOne(c.Context(), c.Params("id"))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", fiber.Map{"property": property})
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	owner, ok := middleware.CurrentUser(c)
	if !ok {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeUnauthorized, "Authorization token required"))
	}

	var req createPropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeValidation, "Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return httpx.Error(c, h.log, err)
	}

	property, err := h.svc.Create(c.Context(), owner, services.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		BHK:         req.BHK,
		Location:    req.Location,
		Price:       req.Price,
		Status:      req.Status,
		Images:      req.Images,
	})
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.Created(c, "Property created", fiber.Map{"property": property})
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	var req updatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeValidation, "Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return httpx.Error(c, h.log, err)
	}

	property, err := h.svc.Update(c.Context(), c.Params("id"), services.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		BHK:         req.BHK,
		Location:    req.Location,
		Price:       req.Price,
		Status:      req.Status,
		Images:      req.Images,
		IsActive:    req.IsActive,
		IsApproved:  req.IsApproved,
	})
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "Property updated", fiber.Map{"property": property})
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "Property deleted", nil)
}

// ListAll returns every listing regardless of visibility flags.
func (h *PropertyHandler) ListAll(c *fiber.Ctx) error {
	properties, err := h.svc.ListAll(c.Context())
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", fiber.Map{"properties": properties})
}
