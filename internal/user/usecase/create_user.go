package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/keycloak"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// CreateUserHandler registers a user in the identity provider and then in the
// local store. A failed local write leaves the remote user in place.
type CreateUserHandler struct {
	txManager       database.TxManager
	users           UserRepository
	idp             IdentityProvider
	defaultPassword string
}

// NewCreateUserHandler creates a CreateUserHandler.
func NewCreateUserHandler(
	txManager database.TxManager,
	users UserRepository,
	idp IdentityProvider,
	defaultPassword string,
) *CreateUserHandler {
	return &CreateUserHandler{txManager: txManager, users: users, idp: idp, defaultPassword: defaultPassword}
}

// Handle implements mediator.Handler.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (UserDTO, error) {
	if !userDomain.IsValidGroup(cmd.Group) {
		return UserDTO{}, userDomain.GroupNotFound(cmd.Group)
	}

	var user *userDomain.User
	err := h.txManager.WithTx(ctx, func(ctx context.Context) error {
		username := strings.TrimSpace(cmd.Username)
		existing, err := h.users.FirstOrDefault(ctx, userDomain.ByUsername(username))
		if err != nil {
			return apperrors.Wrap(err, "failed to look up username")
		}
		if existing != nil {
			return userDomain.UserAlreadyExists(username)
		}

		// The email is checked before the identity provider sees the user.
		user, err = userDomain.NewUser(uuid.Nil, cmd.Username, cmd.FirstName, cmd.LastName, cmd.Group, cmd.Email)
		if err != nil {
			return err
		}

		enabled := true
		location, err := h.idp.CreateUser(ctx, keycloak.UserRepresentation{
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Email:       user.EmailValue(),
			Enabled:     &enabled,
			Groups:      []string{user.Group},
			Credentials: []keycloak.CredentialRepresentation{keycloak.TemporaryPassword(h.defaultPassword)},
		})
		if err != nil {
			return apperrors.Wrap(err, "failed to create identity provider user")
		}

		externalID, err := uuid.Parse(keycloak.UserIDFromLocation(location))
		if err != nil {
			return invalidExternalID()
		}
		user.ExternalID = externalID

		return apperrors.Wrap(h.users.Create(ctx, user), "failed to create user")
	})
	if err != nil {
		return UserDTO{}, err
	}

	return FromUser(user), nil
}
