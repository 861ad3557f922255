package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/keycloak"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

const testDefaultPassword = "DefaultPassword1234!@#" //nolint:gosec // test fixture, not a real credential

func strPtr(s string) *string { return &s }

func TestCreateUserHandler_Handle(t *testing.T) {
	ctx := context.Background()
	externalID := uuid.MustParse("0b6a4d7c-54a8-4d8e-9a5e-3c1b1f7b9e11")
	location := "http://localhost:8080/admin/realms/templates-aspire-react/users/" + externalID.String()

	newCommand := func() CreateUserCommand {
		return CreateUserCommand{
			Username:  " jdoe ",
			FirstName: "John",
			LastName:  "Doe",
			Group:     userDomain.GroupOperators,
			Email:     strPtr("jdoe@example.com"),
		}
	}

	t.Run("Success_CreatesRemoteThenLocalUser", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, userDomain.ByUsername("jdoe")).Return(nil, nil).Once()
		idp.On("CreateUser", ctx, mock.MatchedBy(func(u keycloak.UserRepresentation) bool {
			return u.Username == "jdoe" &&
				u.Email == "jdoe@example.com" &&
				u.Enabled != nil && *u.Enabled &&
				assert.ObjectsAreEqual([]string{userDomain.GroupOperators}, u.Groups) &&
				len(u.Credentials) == 1 &&
				u.Credentials[0].Value == testDefaultPassword &&
				u.Credentials[0].Temporary
		})).Return(location, nil).Once()
		users.On("Create", ctx, mock.MatchedBy(func(u *userDomain.User) bool {
			return u.ExternalID == externalID && u.Username == "jdoe"
		})).Return(nil).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		dto, err := handler.Handle(ctx, newCommand())

		require.NoError(t, err)
		assert.Equal(t, UserDTO{
			ID:        42,
			Username:  "jdoe",
			FirstName: "John",
			LastName:  "Doe",
			Group:     userDomain.GroupOperators,
			Email:     strPtr("jdoe@example.com"),
		}, dto)
		txManager.AssertExpectations(t)
		users.AssertExpectations(t)
		idp.AssertExpectations(t)
	})

	t.Run("Error_UnknownGroup", func(t *testing.T) {
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}
		cmd := newCommand()
		cmd.Group = "Operators"

		handler := NewCreateUserHandler(&mockTxManager{}, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, cmd)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
		assert.Equal(t, "Group 'Operators' does not exist.", appErr.Message)
		users.AssertNotCalled(t, "FirstOrDefault", mock.Anything, mock.Anything)
		idp.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Error_UsernameTaken", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, userDomain.ByUsername("jdoe")).
			Return(&userDomain.User{ID: 1, Username: "jdoe"}, nil).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, newCommand())

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindDomain, appErr.Kind)
		assert.Equal(t, userDomain.CodeUserAlreadyExists, appErr.Code)
		assert.Equal(t, "The user 'jdoe' already exists.", appErr.Message)
		idp.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidEmailNeverReachesIdentityProvider", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}
		cmd := newCommand()
		cmd.Email = strPtr("not-an-email")

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, userDomain.ByUsername("jdoe")).Return(nil, nil).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, cmd)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, userDomain.CodeInvalidEmail, appErr.Code)
		idp.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_UsernameTakenReportedBeforeInvalidEmail", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}
		cmd := newCommand()
		cmd.Email = strPtr("not-an-email")

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, userDomain.ByUsername("jdoe")).
			Return(&userDomain.User{ID: 1, Username: "jdoe"}, nil).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, cmd)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, userDomain.CodeUserAlreadyExists, appErr.Code)
		idp.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Error_LocationIsNotAUUID", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, mock.Anything).Return(nil, nil).Once()
		idp.On("CreateUser", ctx, mock.Anything).Return("http://localhost/users/not-a-uuid/", nil).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, newCommand())

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindInfrastructure, appErr.Kind)
		assert.Equal(t, CodeInvalidExternalID, appErr.Code)
		assert.Equal(t, MessageInvalidExternalID, appErr.Message)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_IdentityProviderFails", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}
		apiErr := &keycloak.APIError{StatusCode: 409, Method: "POST", Path: "/users"}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, mock.Anything).Return(nil, nil).Once()
		idp.On("CreateUser", ctx, mock.Anything).Return("", apiErr).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, newCommand())

		var got *keycloak.APIError
		require.ErrorAs(t, err, &got)
		assert.Equal(t, 409, got.StatusCode)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_LocalPersistFailsAfterRemoteCreate", func(t *testing.T) {
		txManager := &mockTxManager{}
		users := &mockUserRepository{}
		idp := &mockIdentityProvider{}
		persistErr := database.NewPersistenceError("insert user", errors.New("connection reset"))

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		users.On("FirstOrDefault", ctx, mock.Anything).Return(nil, nil).Once()
		idp.On("CreateUser", ctx, mock.Anything).Return(location, nil).Once()
		users.On("Create", ctx, mock.Anything).Return(persistErr).Once()

		handler := NewCreateUserHandler(txManager, users, idp, testDefaultPassword)
		_, err := handler.Handle(ctx, newCommand())

		assert.True(t, database.IsPersistenceError(err))
		idp.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})
}
