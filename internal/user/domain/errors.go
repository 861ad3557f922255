package domain

import (
	"fmt"

	"github.com/allisson/useradmin/internal/errors"
)

// Error codes raised by the user aggregate and its use cases.
const (
	CodeUserAlreadyExists = "User.AlreadyExists"
	CodeInvalidEmail      = "User.InvalidEmail"
)

// UserAlreadyExists reports that username is already taken.
func UserAlreadyExists(username string) *errors.AppError {
	return errors.Domain(CodeUserAlreadyExists, fmt.Sprintf("The user '%s' already exists.", username))
}

// InvalidEmail reports an email that failed the format check.
func InvalidEmail(email *string) *errors.AppError {
	value := "N/A"
	if email != nil {
		value = *email
	}
	return errors.Domain(CodeInvalidEmail, fmt.Sprintf("The email '%s' is not valid.", value))
}

// UserNotFound reports a missing user id.
func UserNotFound(id int64) *errors.AppError {
	return errors.NotFoundf("User with ID %d not found.", id)
}

// GroupNotFound reports a group outside the managed set.
func GroupNotFound(group string) *errors.AppError {
	return errors.NotFoundf("Group '%s' does not exist.", group)
}
