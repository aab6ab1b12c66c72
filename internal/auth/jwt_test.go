package auth

import (
	"testing"
	"time"

	"achatavis_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	Init("test-secret")

	token, err := GenerateToken("guide-1", models.UserRoleGuide, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "guide-1", claims.UserID)
	assert.Equal(t, models.UserRoleGuide, claims.Role)
}

func TestParseToken_Expired(t *testing.T) {
	Init("test-secret")

	token, err := GenerateToken("guide-1", models.UserRoleGuide, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	Init("secret-a")
	token, err := GenerateToken("artisan-1", models.UserRoleArtisan, time.Hour)
	require.NoError(t, err)

	Init("secret-b")
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("long-enough-password")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("long-enough-password", hash))
	assert.False(t, CheckPasswordHash("other-password", hash))
}
