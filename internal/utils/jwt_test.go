package utils

import (
	"testing" // Go's testing package
	"time"    // Token lifetimes

	"online_shop/internal/domain" // Importing domain models

	"github.com/golang-jwt/jwt/v5"        // JWT library
	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // Fatal assertions
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.Sign(&domain.User{ID: 7, Email: "a@b.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: 7, Email: "a@b.com", Role: domain.RoleUser}

	other, err := NewTokenManager("other", time.Hour).Sign(user)
	require.NoError(t, err)
	_, err = m.Parse(other)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	expired, err := NewTokenManager("secret", time.Nanosecond).Sign(user)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = m.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	badRole, err := m.Sign(&domain.User{ID: 7, Role: "ROOT"})
	require.NoError(t, err)
	_, err = m.Parse(badRole)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	// Unsigned tokens never pass method validation
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Role: domain.RoleAdmin})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(raw)
	assert.Error(t, err)

	_, err = m.Parse("garbage")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
}
