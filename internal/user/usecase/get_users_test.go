package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/useradmin/internal/errors"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

func TestGetUserByIDHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("FirstOrDefault", ctx, userDomain.ByIDReadOnly(9)).
			Return(&userDomain.User{ID: 9, Username: "ann", Group: userDomain.GroupAdministrators}, nil).Once()

		dto, err := NewGetUserByIDHandler(users).Handle(ctx, GetUserByIDQuery{ID: 9})

		require.NoError(t, err)
		assert.Equal(t, UserDTO{ID: 9, Username: "ann", Group: userDomain.GroupAdministrators}, dto)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("FirstOrDefault", ctx, userDomain.ByIDReadOnly(9)).Return(nil, nil).Once()

		_, err := NewGetUserByIDHandler(users).Handle(ctx, GetUserByIDQuery{ID: 9})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "User with ID 9 not found.", appErr.Message)
	})
}

func TestGetUsersHandler_Handle(t *testing.T) {
	ctx := context.Background()
	groups := []string{userDomain.GroupOperators}

	t.Run("Success_DefaultsPaging", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("Count", ctx, userDomain.Filter(groups, "jo")).Return(int64(23), nil).Once()
		users.On("List", ctx, userDomain.FilterWithPagination(1, 10, groups, "jo")).
			Return([]*userDomain.User{{ID: 23, Username: "joe"}, {ID: 22, Username: "john"}}, nil).Once()

		result, err := NewGetUsersHandler(users).Handle(ctx, GetUsersQuery{
			Page:     0,
			PageSize: -5,
			Groups:   groups,
			Username: "jo",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 10, result.PageSize)
		assert.Equal(t, int64(23), result.TotalCount)
		assert.Equal(t, 3, result.TotalPages)
		require.Len(t, result.Items, 2)
		assert.Equal(t, int64(23), result.Items[0].ID)
		users.AssertExpectations(t)
	})

	t.Run("Success_EmptyPage", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("Count", ctx, userDomain.Filter(nil, "")).Return(int64(0), nil).Once()
		users.On("List", ctx, userDomain.FilterWithPagination(4, 25, nil, "")).
			Return([]*userDomain.User{}, nil).Once()

		result, err := NewGetUsersHandler(users).Handle(ctx, GetUsersQuery{Page: 4, PageSize: 25})

		require.NoError(t, err)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.Equal(t, 0, result.TotalPages)
	})

	t.Run("Error_CountFails", func(t *testing.T) {
		users := &mockUserRepository{}
		users.On("Count", ctx, userDomain.Filter(nil, "")).Return(int64(0), errors.New("timeout")).Once()

		_, err := NewGetUsersHandler(users).Handle(ctx, GetUsersQuery{})

		require.Error(t, err)
		users.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}
