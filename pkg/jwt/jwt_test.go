package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("u1", "admin@bookstore.local", "admin")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@bookstore.local", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestManager_RefreshTokenType(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
	assert.Empty(t, claims.Role)
}

func TestManager_WrongSecretRejected(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 24*time.Hour)
	token, err := m.GenerateAccessToken("u1", "a@b.c", "staff")
	require.NoError(t, err)

	other := NewManager("different", 15*time.Minute, 24*time.Hour)
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestManager_ExpiredTokenRejected(t *testing.T) {
	m := NewManager("secret", -time.Minute, 24*time.Hour)
	token, err := m.GenerateAccessToken("u1", "a@b.c", "staff")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.Error(t, err)
}

func TestExpiresAt_ReadsUnverified(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	token, err := m.GenerateAccessToken("u1", "a@b.c", "admin")
	require.NoError(t, err)

	exp, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestExpiresAt_RejectsGarbage(t *testing.T) {
	_, err := ExpiresAt("not-a-jwt")
	assert.Error(t, err)
}
