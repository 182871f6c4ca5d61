package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mehular0ra/propfinder/internal/models"
	"github.com/mehular0ra/propfinder/internal/services"
)

func testApp(parse TokenParser, resolve UserResolver, adminOnly bool) *fiber.App {
	app := fiber.New()
	chain := []fiber.Handler{RequireAuth(zerolog.Nop(), parse, resolve)}
	if adminOnly {
		chain = append(chain, RequireAdmin(zerolog.Nop()))
	}
	chain = append(chain, func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return c.JSON(fiber.Map{"phone": user.Phone})
	})
	app.Get("/protected", chain...)
	return app
}

func claimsFor(user models.User) *services.Claims {
	return &services.Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.Hex(),
		},
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	app := testApp(nil, nil, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthBadToken(t *testing.T) {
	parse := func(string) (*services.Claims, error) { return nil, errors.New("token is malformed") }
	app := testApp(parse, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthUnresolvableSubject(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	parse := func(string) (*services.Claims, error) { return claimsFor(user), nil }
	resolve := func(context.Context, string) (models.User, error) {
		return models.User{}, errors.New("User not found")
	}
	app := testApp(parse, resolve, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthResolvesUser(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Phone: "9876543210", Role: models.RoleUser}
	parse := func(string) (*services.Claims, error) { return claimsFor(user), nil }
	resolve := func(_ context.Context, id string) (models.User, error) {
		if id != user.ID.Hex() {
			return models.User{}, errors.New("User not found")
		}
		return user, nil
	}
	app := testApp(parse, resolve, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	parse := func(string) (*services.Claims, error) { return claimsFor(user), nil }
	resolve := func(context.Context, string) (models.User, error) { return user, nil }
	app := testApp(parse, resolve, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	parse := func(string) (*services.Claims, error) { return claimsFor(admin), nil }
	resolve := func(context.Context, string) (models.User, error) { return admin, nil }
	app := testApp(parse, resolve, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
