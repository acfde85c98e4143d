package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTValidator_RoundTrip(t *testing.T) {
	gen, err := NewJWTGenerator("s3cret", "azurechat", []string{"threads"}, time.Minute)
	require.NoError(t, err)
	token, err := gen.GenerateToken("user-1", "u@example.com", []string{"user"})
	require.NoError(t, err)

	v, err := NewJWTValidator(JWTConfig{SecretKey: "s3cret", Issuer: "azurechat", Audience: []string{"threads"}})
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, []string{"user"}, claims.Roles)
}

func TestJWTValidator_Rejects(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256", SecretKey: "s3cret", Issuer: "azurechat"})
	require.NoError(t, err)

	wrongKey, _ := NewJWTGenerator("other", "azurechat", nil, time.Minute)
	token, _ := wrongKey.GenerateToken("user-1", "", nil)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongIssuer, _ := NewJWTGenerator("s3cret", "someone-else", nil, time.Minute)
	token, _ = wrongIssuer.GenerateToken("user-1", "", nil)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	noUser, _ := NewJWTGenerator("s3cret", "azurechat", nil, time.Minute)
	token, _ = noUser.GenerateToken("", "", nil)
	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = v.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = v.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTValidator_Config(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "RS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "none", SecretKey: "x"})
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.Error(t, err)

	ctx := SetUserInContext(context.Background(), &UserContext{UserID: "u"})
	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u", user.UserID)
}

func TestKeyedLimiter(t *testing.T) {
	l := NewKeyedLimiter(1, 2)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are limited independently")
}
