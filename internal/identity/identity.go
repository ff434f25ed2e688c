package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/petalmart/storefront/internal/errors"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/store"
)

type userId struct{}

// FromContext returns the authenticated user id, or empty for guests.
func FromContext(c context.Context) string {
	id, ok := c.Value(userId{}).(string)
	if !ok {
		return ""
	}
	return id
}

func AttachToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, userId{}, id)
}

// Scope maps a user id to its storage scope. Every persisted collection is
// keyed by this value so identities never share state.
func Scope(userID string) string {
	if userID == "" {
		return store.GuestScope
	}
	return userID
}

// ScopeFromContext is shorthand for Scope(FromContext(c)).
func ScopeFromContext(c context.Context) string {
	return Scope(FromContext(c))
}

func UserIDFromToken(c context.Context, token string, secretKey string) (string, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "identity UserIDFromToken").
		Logger()

	claims := jwt.RegisteredClaims{}

	logger = logger.With().Str(log.KeyProcess, "parsing claims").Logger()
	jwtToken, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing with claims with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	if !jwtToken.Valid {
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return "", inErrors.ErrTokenInvalid
	}
	if claims.Subject == "" {
		logger.Error().Err(inErrors.ErrEmptySubject).Msg(inErrors.ErrEmptySubject.Error())
		return "", inErrors.ErrEmptySubject
	}

	return claims.Subject, nil
}
