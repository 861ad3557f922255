// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"github.com/allisson/useradmin/internal/user/usecase"
)

// ToCreateUserCommand converts a CreateUserRequest DTO to its command.
func ToCreateUserCommand(req CreateUserRequest) usecase.CreateUserCommand {
	return usecase.CreateUserCommand{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Group:     req.Group,
		Email:     req.Email,
	}
}

// ToUpdateUserCommand converts an UpdateUserRequest DTO to its command.
func ToUpdateUserCommand(id int64, req UpdateUserRequest) usecase.UpdateUserCommand {
	return usecase.UpdateUserCommand{
		ID:        id,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Group:     req.Group,
		Email:     req.Email,
	}
}
