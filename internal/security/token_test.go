package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("0123456789abcdef0123456789abcdef", 60)

	t.Run("Round trip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, "renter@example.com", []string{"renter"})
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := tm.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
		assert.Equal(t, "renter@example.com", claims.Email)
		assert.True(t, claims.HasRole("renter"))
		assert.False(t, claims.HasRole("admin"))
	})

	t.Run("Wrong secret rejected", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", 60)
		token, err := other.GenerateAccessToken(42, "", nil)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		expired := NewTokenManager("0123456789abcdef0123456789abcdef", -1)
		token, err := expired.GenerateAccessToken(42, "", nil)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Garbage rejected", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
