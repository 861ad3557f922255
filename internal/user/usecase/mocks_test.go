package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/useradmin/internal/keycloak"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// mockTxManager runs fn inline unless an error is configured.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FirstOrDefault(
	ctx context.Context,
	spec userDomain.UserSpec,
) (*userDomain.User, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, spec userDomain.UserSpec) ([]*userDomain.User, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) Count(ctx context.Context, spec userDomain.UserSpec) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

// Create assigns the next id when configured to succeed.
func (m *mockUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 42
	}
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) CreateUser(ctx context.Context, user keycloak.UserRepresentation) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *mockIdentityProvider) UpdateUser(
	ctx context.Context,
	userID string,
	user keycloak.UserRepresentation,
) error {
	args := m.Called(ctx, userID, user)
	return args.Error(0)
}

func (m *mockIdentityProvider) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockIdentityProvider) GetUserGroups(
	ctx context.Context,
	userID string,
) ([]keycloak.GroupRepresentation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]keycloak.GroupRepresentation), args.Error(1)
}

func (m *mockIdentityProvider) GetGroups(ctx context.Context, search string) ([]keycloak.GroupRepresentation, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]keycloak.GroupRepresentation), args.Error(1)
}

func (m *mockIdentityProvider) JoinGroup(ctx context.Context, userID, groupID string) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}

func (m *mockIdentityProvider) LeaveGroup(ctx context.Context, userID, groupID string) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}
