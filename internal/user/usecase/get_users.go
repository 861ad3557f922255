package usecase

import (
	"context"

	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/pagination"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// GetUserByIDHandler loads one user.
type GetUserByIDHandler struct {
	users UserRepository
}

// NewGetUserByIDHandler creates a GetUserByIDHandler.
func NewGetUserByIDHandler(users UserRepository) *GetUserByIDHandler {
	return &GetUserByIDHandler{users: users}
}

// Handle implements mediator.Handler.
func (h *GetUserByIDHandler) Handle(ctx context.Context, query GetUserByIDQuery) (UserDTO, error) {
	user, err := h.users.FirstOrDefault(ctx, userDomain.ByIDReadOnly(query.ID))
	if err != nil {
		return UserDTO{}, apperrors.Wrap(err, "failed to load user")
	}
	if user == nil {
		return UserDTO{}, userDomain.UserNotFound(query.ID)
	}
	return FromUser(user), nil
}

// GetUsersHandler lists one page of users, newest first.
type GetUsersHandler struct {
	users UserRepository
}

// NewGetUsersHandler creates a GetUsersHandler.
func NewGetUsersHandler(users UserRepository) *GetUsersHandler {
	return &GetUsersHandler{users: users}
}

// Handle implements mediator.Handler.
func (h *GetUsersHandler) Handle(
	ctx context.Context,
	query GetUsersQuery,
) (pagination.PagedResult[UserDTO], error) {
	page, pageSize := pagination.Normalize(query.Page, query.PageSize)

	total, err := h.users.Count(ctx, userDomain.Filter(query.Groups, query.Username))
	if err != nil {
		return pagination.PagedResult[UserDTO]{}, apperrors.Wrap(err, "failed to count users")
	}

	users, err := h.users.List(ctx, userDomain.FilterWithPagination(page, pageSize, query.Groups, query.Username))
	if err != nil {
		return pagination.PagedResult[UserDTO]{}, apperrors.Wrap(err, "failed to list users")
	}

	items := make([]UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, FromUser(u))
	}
	return pagination.New(items, page, pageSize, total), nil
}
