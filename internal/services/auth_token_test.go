package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mehular0ra/propfinder/internal/models"
)

func tokenService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{secret: []byte(secret), tokenTTL: ttl}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := tokenService("test-secret", 7*24*time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	token, err := svc.Token(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 6*24*time.Hour)
	assert.LessOrEqual(t, remaining, 7*24*time.Hour)
}

func TestParseTokenExpired(t *testing.T) {
	svc := tokenService("test-secret", -time.Minute)
	token, err := svc.Token(models.User{ID: primitive.NewObjectID(), Role: models.RoleUser})
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := tokenService("secret-a", time.Hour).Token(models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	_, err = tokenService("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := tokenService("test-secret", time.Hour).ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
}
