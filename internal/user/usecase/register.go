package usecase

import (
	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/mediator"
	"github.com/allisson/useradmin/internal/pagination"
)

// Dependencies are the collaborators shared by the user handlers.
type Dependencies struct {
	TxManager        database.TxManager
	Users            UserRepository
	IdentityProvider IdentityProvider
	DefaultPassword  string
}

// Register binds every user handler and validator.
func Register(m *mediator.Mediator, validators *mediator.Validators, deps Dependencies) {
	mediator.Register[CreateUserCommand, UserDTO](m,
		NewCreateUserHandler(deps.TxManager, deps.Users, deps.IdentityProvider, deps.DefaultPassword))
	mediator.Register[UpdateUserCommand, UserDTO](m,
		NewUpdateUserHandler(deps.TxManager, deps.Users, deps.IdentityProvider))
	mediator.Register[DeleteUserCommand, mediator.Unit](m,
		NewDeleteUserHandler(deps.TxManager, deps.Users, deps.IdentityProvider))
	mediator.Register[ResetUserPasswordCommand, mediator.Unit](m,
		NewResetUserPasswordHandler(deps.Users, deps.IdentityProvider, deps.DefaultPassword))
	mediator.Register[GetUserByIDQuery, UserDTO](m, NewGetUserByIDHandler(deps.Users))
	mediator.Register[GetUsersQuery, pagination.PagedResult[UserDTO]](m, NewGetUsersHandler(deps.Users))

	mediator.RegisterValidator(validators, ValidateCreateUser)
	mediator.RegisterValidator(validators, ValidateUpdateUser)
	mediator.RegisterValidator(validators, ValidateDeleteUser)
	mediator.RegisterValidator(validators, ValidateResetUserPassword)
}
