package app

import (
	"net/http"

	authService "github.com/allisson/useradmin/internal/auth/service"
)

// KeySet returns the signing key cache of the identity provider.
func (c *Container) KeySet() *authService.KeySet {
	c.keySetInit.Do(func() {
		c.keySet = authService.NewKeySet(
			c.config.JWKSURL(),
			&http.Client{Timeout: c.config.KeycloakHTTPTimeout},
			c.Logger(),
		)
	})
	return c.keySet
}

// TokenValidator returns the bearer token validator.
func (c *Container) TokenValidator() authService.TokenValidator {
	c.tokenValidatorInit.Do(func() {
		c.tokenValidator = authService.NewTokenValidator(
			c.KeySet(),
			c.config.ValidIssuers(),
			c.config.OAuthAudience,
		)
	})
	return c.tokenValidator
}
