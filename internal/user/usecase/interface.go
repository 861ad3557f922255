// Package usecase implements the user management commands and queries
// dispatched through the mediator.
package usecase

import (
	"context"

	"github.com/allisson/useradmin/internal/keycloak"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// UserRepository reads users through specifications and persists the aggregate.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// FirstOrDefault returns the first matching user, or nil when none matches.
	FirstOrDefault(ctx context.Context, spec userDomain.UserSpec) (*userDomain.User, error)

	// List returns every matching user, honouring its page window when one is set.
	List(ctx context.Context, spec userDomain.UserSpec) ([]*userDomain.User, error)

	// Count ignores pagination and returns the number of matching users.
	Count(ctx context.Context, spec userDomain.UserSpec) (int64, error)

	Create(ctx context.Context, user *userDomain.User) error
	Update(ctx context.Context, user *userDomain.User) error
	Delete(ctx context.Context, id int64) error
}

// IdentityProvider is the admin API of the external identity provider.
type IdentityProvider interface {
	// CreateUser returns the Location header pointing at the new user.
	CreateUser(ctx context.Context, user keycloak.UserRepresentation) (string, error)
	UpdateUser(ctx context.Context, userID string, user keycloak.UserRepresentation) error
	DeleteUser(ctx context.Context, userID string) error
	GetUserGroups(ctx context.Context, userID string) ([]keycloak.GroupRepresentation, error)
	GetGroups(ctx context.Context, search string) ([]keycloak.GroupRepresentation, error)
	JoinGroup(ctx context.Context, userID, groupID string) error
	LeaveGroup(ctx context.Context, userID, groupID string) error
}
