// Package errors holds the error values shared by every layer. Use cases
// return AppError variants; the HTTP layer turns them into problem responses
// and the sentinels below into 401 and 403.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels matched with Is. NotFound and Validation AppErrors also match
// ErrNotFound and ErrInvalidInput.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Wrap prefixes err with message, keeping it in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
