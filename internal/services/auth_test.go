package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "codemart",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := testTokenService()
	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, svc.VerifyPassword("wrong password", hash))
	assert.False(t, svc.VerifyPassword("", hash))
}

func TestAccessTokenClaims(t *testing.T) {
	svc := testTokenService()
	token, expiresIn, err := svc.CreateAccessToken("user-1", "ana@example.com", []string{"USER", "CREATOR"})
	require.NoError(t, err)
	assert.Positive(t, expiresIn)

	parsed, claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "access", claims["typ"])
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "ana@example.com", claims["email"])

	rawRoles, ok := claims["roles"].([]interface{})
	require.True(t, ok)
	assert.Len(t, rawRoles, 2)
}

func TestRefreshTokenIsNotAccess(t *testing.T) {
	svc := testTokenService()
	refresh, err := svc.CreateRefreshToken("user-1")
	require.NoError(t, err)

	_, claims, err := svc.ParseToken(refresh)
	require.NoError(t, err)
	assert.NotEqual(t, "access", claims["typ"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := testTokenService()
	other := TokenService{Secret: []byte("another-secret"), Issuer: "codemart", AccessTTL: time.Hour}
	token, _, err := other.CreateAccessToken("user-1", "a@b.c", nil)
	require.NoError(t, err)

	_, _, err = svc.ParseToken(token)
	assert.Error(t, err)
}
