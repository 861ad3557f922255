package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
)

// clockSkew is tolerated on exp, nbf and iat.
const clockSkew = 30 * time.Second

var signingMethods = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512", "PS256"}

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	// Validate checks the signature, lifetime, audience and issuer of raw and
	// returns its claims. Failures wrap authDomain.ErrInvalidToken.
	Validate(ctx context.Context, raw string) (*authDomain.Claims, error)
}

type tokenValidator struct {
	keys     *KeySet
	issuers  []string
	audience string
}

// NewTokenValidator creates a TokenValidator accepting tokens from any of
// issuers. An empty audience disables the audience check.
func NewTokenValidator(keys *KeySet, issuers []string, audience string) TokenValidator {
	return &tokenValidator{keys: keys, issuers: issuers, audience: audience}
}

func (v *tokenValidator) Validate(ctx context.Context, raw string) (*authDomain.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(signingMethods),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &authDomain.Claims{}
	if _, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, v.keys.Keyfunc(ctx)); err != nil {
		return nil, fmt.Errorf("%w: %v", authDomain.ErrInvalidToken, err)
	}

	if !slices.Contains(v.issuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: issuer %q is not accepted", authDomain.ErrInvalidToken, claims.Issuer)
	}

	return claims, nil
}
