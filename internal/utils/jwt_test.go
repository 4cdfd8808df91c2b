package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	raw, err := NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, raw, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "CUSTOMER", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	raw, err := NewRefreshToken(testSecret, 42, "OWNER", 7)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, raw, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	raw, err := NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, raw, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	raw, err := NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", raw, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	raw, err := NewAccessToken(testSecret, 42, "CUSTOMER", -1)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, raw, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
