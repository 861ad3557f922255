package domain

import (
	"github.com/allisson/useradmin/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidToken indicates a bearer token that failed parsing or verification.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrUnknownKey indicates a token signed by a key missing from the key set.
	ErrUnknownKey = errors.Wrap(errors.ErrUnauthorized, "unknown signing key")

	// ErrMissingRole indicates an authenticated subject without the required realm role.
	ErrMissingRole = errors.Wrap(errors.ErrForbidden, "missing realm role")
)
