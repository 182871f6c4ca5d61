package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mehular0ra/propfinder/internal/apperr"
	"github.com/mehular0ra/propfinder/internal/httpx"
	"github.com/mehular0ra/propfinder/internal/models"
	"github.com/mehular0ra/propfinder/internal/services"
)

// UserKey is the request-locals key under which the authenticated user is
// stored.
const UserKey = "auth_user"

// TokenParser verifies a bearer token and yields its claims.
type TokenParser func(token string) (*services.Claims, error)

// UserResolver turns a token subject into a live user record.
type UserResolver func(ctx context.Context, id string) (models.User, error)

// RequireAuth verifies the bearer credential and resolves its subject
// before any handler logic runs. Missing, malformed, expired or orphaned
// tokens all fail with 401.
func RequireAuth(log zerolog.Logger, parse TokenParser, resolve UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return httpx.Error(c, log, apperr.New(apperr.CodeUnauthorized, "Authorization token required"))
		}

		token := strings.TrimPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if token == "" {
			return httpx.Error(c, log, apperr.New(apperr.CodeUnauthorized, "Invalid authorization header"))
		}

		claims, err := parse(token)
		if err != nil {
			return httpx.Error(c, log, apperr.New(apperr.CodeUnauthorized, "Invalid or expired token"))
		}

		user, err := resolve(c.Context(), claims.Subject)
		if err != nil {
			return httpx.Error(c, log, apperr.New(apperr.CodeUnauthorized, "Invalid or expired token"))
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireAdmin gates a route to admin users. It must run after RequireAuth;
// an authenticated non-admin gets 403.
func RequireAdmin(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(UserKey).(models.User)
		if !ok {
			return httpx.Error(c, log, apperr.New(apperr.CodeUnauthorized, "Authorization token required"))
		}
		if user.Role != models.RoleAdmin {
			return httpx.Error(c, log, apperr.New(apperr.CodeForbidden, "Admin access required"))
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stashed by RequireAuth.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(UserKey).(models.User)
	return user, ok
}
