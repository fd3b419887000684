package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3cret", "not-a-hash"))

	other, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestHashPasswordLength(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// multi-byte runes count by byte
	_, err = HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestAccessToken(t *testing.T) {
	const secret = "test-secret"

	t.Run("round trip", func(t *testing.T) {
		token, err := GenerateAccessToken(secret, 42, time.Hour)
		require.NoError(t, err)

		claims, err := ParseAccessToken(token, secret)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateAccessToken(secret, 1, time.Hour)
		require.NoError(t, err)

		_, err = ParseAccessToken(token, "other")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateAccessToken(secret, 1, -time.Minute)
		require.NoError(t, err)

		_, err = ParseAccessToken(token, secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseAccessToken("not.a.token", secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := AccessClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseAccessToken(token, secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(20)
	require.NoError(t, err)
	assert.Len(t, a, 40)
	assert.Equal(t, strings.ToLower(a), a)

	b, err := RandomHex(20)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
