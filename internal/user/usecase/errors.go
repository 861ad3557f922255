package usecase

import apperrors "github.com/allisson/useradmin/internal/errors"

// Raised when the identity provider answers a create with an unusable Location.
const (
	CodeInvalidExternalID    = "Keycloak.UserId.InvalidFormat"
	MessageInvalidExternalID = "Invalid Keycloak user ID format."
)

func invalidExternalID() *apperrors.AppError {
	return apperrors.Infrastructure(CodeInvalidExternalID, MessageInvalidExternalID, nil)
}

func currentGroupNotFound(group string) *apperrors.AppError {
	return apperrors.NotFoundf("Current group '%s' not found in external system.", group)
}

func targetGroupNotFound(group string) *apperrors.AppError {
	return apperrors.NotFoundf("Target group '%s' not found in external system.", group)
}
