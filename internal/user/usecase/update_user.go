package usecase

import (
	"context"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/keycloak"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// UpdateUserHandler updates a user in the identity provider and then locally,
// moving it between groups when the group changes.
type UpdateUserHandler struct {
	txManager database.TxManager
	users     UserRepository
	idp       IdentityProvider
}

// NewUpdateUserHandler creates an UpdateUserHandler.
func NewUpdateUserHandler(txManager database.TxManager, users UserRepository, idp IdentityProvider) *UpdateUserHandler {
	return &UpdateUserHandler{txManager: txManager, users: users, idp: idp}
}

// Handle implements mediator.Handler.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (UserDTO, error) {
	if !userDomain.IsValidGroup(cmd.Group) {
		return UserDTO{}, userDomain.GroupNotFound(cmd.Group)
	}

	var dto UserDTO
	err := h.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := h.users.FirstOrDefault(ctx, userDomain.ByID(cmd.ID))
		if err != nil {
			return apperrors.Wrap(err, "failed to load user")
		}
		if user == nil {
			return userDomain.UserNotFound(cmd.ID)
		}

		previousGroup := user.Group
		if err := user.Update(cmd.Username, cmd.FirstName, cmd.LastName, cmd.Group, cmd.Email); err != nil {
			return err
		}

		externalID := user.ExternalID.String()
		if user.Group != previousGroup {
			if err := h.moveToGroup(ctx, externalID, previousGroup, user.Group); err != nil {
				return err
			}
		}

		err = h.idp.UpdateUser(ctx, externalID, keycloak.UserRepresentation{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.EmailValue(),
		})
		if err != nil {
			return apperrors.Wrap(err, "failed to update identity provider user")
		}

		if err := h.users.Update(ctx, user); err != nil {
			return apperrors.Wrap(err, "failed to update user")
		}
		dto = FromUser(user)
		return nil
	})
	if err != nil {
		return UserDTO{}, err
	}
	return dto, nil
}

func (h *UpdateUserHandler) moveToGroup(ctx context.Context, externalID, from, to string) error {
	memberships, err := h.idp.GetUserGroups(ctx, externalID)
	if err != nil {
		return apperrors.Wrap(err, "failed to list user groups")
	}
	current, ok := keycloak.FindGroupByName(memberships, from)
	if !ok {
		return currentGroupNotFound(from)
	}

	candidates, err := h.idp.GetGroups(ctx, to)
	if err != nil {
		return apperrors.Wrap(err, "failed to search groups")
	}
	target, ok := keycloak.FindGroupByName(candidates, to)
	if !ok {
		return targetGroupNotFound(to)
	}

	if err := h.idp.LeaveGroup(ctx, externalID, current.ID); err != nil {
		return apperrors.Wrap(err, "failed to leave group")
	}
	return apperrors.Wrap(h.idp.JoinGroup(ctx, externalID, target.ID), "failed to join group")
}
