package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/petalmart/storefront/internal/errors"
	"github.com/petalmart/storefront/internal/store"
)

func signToken(t *testing.T, subject string, secretKey string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	require.NoError(t, err)
	return token
}

func TestScope(t *testing.T) {
	assert.Equal(t, store.GuestScope, Scope(""))
	assert.Equal(t, "u1", Scope("u1"))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FromContext(ctx))
	assert.Equal(t, store.GuestScope, ScopeFromContext(ctx))

	ctx = AttachToContext(ctx, "u1")
	assert.Equal(t, "u1", FromContext(ctx))
	assert.Equal(t, "u1", ScopeFromContext(ctx))
}

func TestUserIDFromToken(t *testing.T) {
	token := signToken(t, "u1", "secret")

	userID, err := UserIDFromToken(context.Background(), token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestUserIDFromToken_WrongSecret(t *testing.T) {
	token := signToken(t, "u1", "secret")

	_, err := UserIDFromToken(context.Background(), token, "other")
	assert.Error(t, err)
}

func TestUserIDFromToken_EmptySubject(t *testing.T) {
	token := signToken(t, "", "secret")

	_, err := UserIDFromToken(context.Background(), token, "secret")
	assert.ErrorIs(t, err, inErrors.ErrEmptySubject)
}

func TestUserIDFromToken_Expired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = UserIDFromToken(context.Background(), token, "secret")
	assert.Error(t, err)
}
