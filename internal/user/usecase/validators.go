package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	userDomain "github.com/allisson/useradmin/internal/user/domain"
	customValidation "github.com/allisson/useradmin/internal/validation"
)

// Column limits of the users table.
const (
	maxUsernameLength = 255
	maxNameLength     = 255
	maxGroupLength    = 100
)

// ValidateCreateUser checks the shape of a CreateUserCommand. Unknown groups
// are left to the handler, which reports them as not found.
func ValidateCreateUser(ctx context.Context, cmd CreateUserCommand) error {
	return validation.ValidateStructWithContext(ctx, &cmd,
		validation.Field(&cmd.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxUsernameLength),
		),
		validation.Field(&cmd.FirstName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxNameLength),
		),
		validation.Field(&cmd.LastName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxNameLength),
		),
		validation.Field(&cmd.Group, validation.Required, validation.Length(1, maxGroupLength)),
		validation.Field(&cmd.Email, customValidation.Email(userDomain.IsValidEmail)),
	)
}

// ValidateUpdateUser checks the shape of an UpdateUserCommand.
func ValidateUpdateUser(ctx context.Context, cmd UpdateUserCommand) error {
	return validation.ValidateStructWithContext(ctx, &cmd,
		validation.Field(&cmd.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&cmd.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxUsernameLength),
		),
		validation.Field(&cmd.FirstName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxNameLength),
		),
		validation.Field(&cmd.LastName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxNameLength),
		),
		validation.Field(&cmd.Group, validation.Required, validation.Length(1, maxGroupLength)),
		validation.Field(&cmd.Email, customValidation.Email(userDomain.IsValidEmail)),
	)
}

// ValidateDeleteUser rejects non-positive ids.
func ValidateDeleteUser(ctx context.Context, cmd DeleteUserCommand) error {
	return validation.ValidateStructWithContext(ctx, &cmd,
		validation.Field(&cmd.ID, validation.Required, validation.Min(int64(1))),
	)
}

// ValidateResetUserPassword rejects non-positive ids.
func ValidateResetUserPassword(ctx context.Context, cmd ResetUserPasswordCommand) error {
	return validation.ValidateStructWithContext(ctx, &cmd,
		validation.Field(&cmd.ID, validation.Required, validation.Min(int64(1))),
	)
}
