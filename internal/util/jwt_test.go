package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParseToken(t *testing.T) {
	tok, err := GenerateToken("secret", "finance-tracker", 42, "sess-1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "finance-tracker", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("secret", "", 1, "s", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", tok)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "s",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken("secret", tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	tok, err := GenerateToken("secret", "", 1, "s", 0)
	require.NoError(t, err)

	claims, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateToken("", "", 1, "s", time.Hour)
	assert.Error(t, err)
}
