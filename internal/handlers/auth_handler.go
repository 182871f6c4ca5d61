package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mehular0ra/propfinder/internal/apperr"
	"github.com/mehular0ra/propfinder/internal/httpx"
	"github.com/mehular0ra/propfinder/internal/middleware"
	"github.com/mehular0ra/propfinder/internal/models"
	"github.com/mehular0ra/propfinder/internal/services"
	"github.com/mehular0ra/propfinder/internal/validation"
)

type authService interface {
	Register(ctx context.Context, in services.RegisterInput) (models.User, string, error)
	Login(ctx context.Context, phone, password string) (models.User, string, error)
	AdminLogin(ctx context.Context, phone, password string) (models.User, string, error)
	GetProfile(ctx context.Context, id primitive.ObjectID) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, in services.UpdateProfileInput) (models.User, error)
}

// AuthHandler exposes the /api/auth endpoints.
type AuthHandler struct {
	svc authService
	log zerolog.Logger
}

func NewAuthHandler(svc authService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeValidation, "Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return httpx.Error(c, h.log, err)
	}

	user, token, err := h.svc.Register(c.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.Created(c, "Registration successful", fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeValidation, "Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return httpx.Error(c, h.log, err)
	}

	user, token, err := h.svc.Login(c.Context(), req.Phone, req.Password)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "Login successful", fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeValidation, "Invalid request body"))
	}
	if err := validation.Struct(req); err != nil {
		return httpx.Error(c, h.log, err)
	}

	user, token, err := h.svc.AdminLogin(c.Context(), req.Phone, req.Password)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "Login successful", fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeUnauthorized, "Authorization token required"))
	}

	user, err := h.svc.GetProfile(c.Context(), current.ID)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", fiber.Map{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeUnauthorized, "Authorization token required"))
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, h.log, apperr.New(apperr.CodeValidation, "Invalid request body"))
	}

	user, err := h.svc.UpdateProfile(c.Context(), current.ID, services.UpdateProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "Profile updated", fiber.Map{"user": user})
}
