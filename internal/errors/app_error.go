package errors

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an AppError.
type Kind int

const (
	// KindNotFound marks a missing resource.
	KindNotFound Kind = iota + 1
	// KindValidation marks input rejected by a validator.
	KindValidation
	// KindDomain marks a business rule violation.
	KindDomain
	// KindInfrastructure marks a failure of the store or an external system.
	KindInfrastructure
)

// String returns the problem title used for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFoundError"
	case KindValidation:
		return "ValidationError"
	case KindDomain:
		return "DomainError"
	case KindInfrastructure:
		return "InfrastructureError"
	default:
		return "Error"
	}
}

// Codes shared by every module.
const (
	CodeNotFound        = "NotFound"
	CodeValidationError = "ValidationError"
	ExceptionMetadata   = "exception"
	validationMessage   = "One or more validation errors occurred."
)

// ValidationFailure is a single rejected field.
type ValidationFailure struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}

// AppError is the expected failure of an operation. It carries a stable code
// and a human readable message, plus the variant specific payload.
type AppError struct {
	Kind     Kind
	Code     string
	Message  string
	Metadata map[string]any
	Failures []ValidationFailure
	cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is lets callers match variants against the standard sentinels.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidInput:
		return e.Kind == KindValidation
	}
	return false
}

// NotFound creates a not found error with the given message.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return NotFound(fmt.Sprintf(format, args...))
}

// Validation creates a validation error from the given failures.
func Validation(failures []ValidationFailure) *AppError {
	return &AppError{
		Kind:     KindValidation,
		Code:     CodeValidationError,
		Message:  validationMessage,
		Failures: failures,
	}
}

// Domain creates a business rule error.
func Domain(code, message string) *AppError {
	return &AppError{Kind: KindDomain, Code: code, Message: message, Metadata: map[string]any{}}
}

// Infrastructure creates an infrastructure error. When cause is not nil its
// message is kept in the metadata under the "exception" key.
func Infrastructure(code, message string, cause error) *AppError {
	metadata := map[string]any{}
	if cause != nil {
		metadata[ExceptionMetadata] = cause.Error()
	}
	return &AppError{
		Kind:     KindInfrastructure,
		Code:     code,
		Message:  message,
		Metadata: metadata,
		cause:    cause,
	}
}

// AsAppError returns the first AppError in err's tree.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ValidationSummary joins the failures into a single line, mostly for logs.
func (e *AppError) ValidationSummary() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.PropertyName+": "+f.ErrorMessage)
	}
	return strings.Join(parts, "; ")
}
