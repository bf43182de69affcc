package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	userID := uuid.New()

	signed, expiresAt, err := svc.GenerateAccessToken(userID, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(DefaultExpiry), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	got, err := claims.ParseUserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	signed, _, err := NewJWTService("secret-a", time.Hour).GenerateAccessToken(uuid.New(), "bob")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, _, err := svc.GenerateAccessToken(uuid.New(), "carol")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := NewJWTService("test-secret", time.Hour).ValidateToken("not-a-token")
	assert.Error(t, err)
}
