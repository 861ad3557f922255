package usecase

import (
	"context"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/mediator"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// DeleteUserHandler removes a user from the identity provider, then locally.
type DeleteUserHandler struct {
	txManager database.TxManager
	users     UserRepository
	idp       IdentityProvider
}

// NewDeleteUserHandler creates a DeleteUserHandler.
func NewDeleteUserHandler(txManager database.TxManager, users UserRepository, idp IdentityProvider) *DeleteUserHandler {
	return &DeleteUserHandler{txManager: txManager, users: users, idp: idp}
}

// Handle implements mediator.Handler.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) (mediator.Unit, error) {
	err := h.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := h.users.FirstOrDefault(ctx, userDomain.ByID(cmd.ID))
		if err != nil {
			return apperrors.Wrap(err, "failed to load user")
		}
		if user == nil {
			return userDomain.UserNotFound(cmd.ID)
		}

		if err := h.idp.DeleteUser(ctx, user.ExternalID.String()); err != nil {
			return apperrors.Wrap(err, "failed to delete identity provider user")
		}

		return apperrors.Wrap(h.users.Delete(ctx, user.ID), "failed to delete user")
	})
	return mediator.Unit{}, err
}
