package usecase

import (
	"context"

	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/keycloak"
	"github.com/allisson/useradmin/internal/mediator"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// ResetUserPasswordHandler sets the default password as a temporary credential.
// Nothing is written locally.
type ResetUserPasswordHandler struct {
	users           UserRepository
	idp             IdentityProvider
	defaultPassword string
}

// NewResetUserPasswordHandler creates a ResetUserPasswordHandler.
func NewResetUserPasswordHandler(
	users UserRepository,
	idp IdentityProvider,
	defaultPassword string,
) *ResetUserPasswordHandler {
	return &ResetUserPasswordHandler{users: users, idp: idp, defaultPassword: defaultPassword}
}

// Handle implements mediator.Handler.
func (h *ResetUserPasswordHandler) Handle(ctx context.Context, cmd ResetUserPasswordCommand) (mediator.Unit, error) {
	user, err := h.users.FirstOrDefault(ctx, userDomain.ByIDReadOnly(cmd.ID))
	if err != nil {
		return mediator.Unit{}, apperrors.Wrap(err, "failed to load user")
	}
	if user == nil {
		return mediator.Unit{}, userDomain.UserNotFound(cmd.ID)
	}

	err = h.idp.UpdateUser(ctx, user.ExternalID.String(), keycloak.UserRepresentation{
		Credentials: []keycloak.CredentialRepresentation{keycloak.TemporaryPassword(h.defaultPassword)},
	})
	return mediator.Unit{}, apperrors.Wrap(err, "failed to reset password")
}
