// Package domain defines the bearer token claims issued by the identity
// provider and the authentication errors derived from them.
package domain

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// RealmAccess lists the realm roles granted to the subject.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Claims are the access token claims read by the API.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string      `json:"preferred_username,omitempty"`
	Email             string      `json:"email,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
}

// HasRealmRole reports whether role was granted at realm level.
func (c *Claims) HasRealmRole(role string) bool {
	return slices.Contains(c.RealmAccess.Roles, role)
}
