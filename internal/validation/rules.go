// Package validation provides custom validation rules and the conversion of
// rule failures into field level validation errors.
package validation

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// Failures flattens jellydator validation errors into sorted field failures.
// ok is false when err is not a validation result, e.g. a validator bug.
func Failures(err error) (failures []apperrors.ValidationFailure, ok bool) {
	if err == nil {
		return nil, true
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return nil, false
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		failures = collect("", fieldErrs)
		sort.SliceStable(failures, func(i, j int) bool {
			return failures[i].PropertyName < failures[j].PropertyName
		})
		return failures, true
	}

	var ruleErr validation.Error
	if errors.As(err, &ruleErr) {
		return []apperrors.ValidationFailure{{ErrorMessage: ruleErr.Error()}}, true
	}

	return nil, false
}

func collect(prefix string, errs validation.Errors) []apperrors.ValidationFailure {
	var failures []apperrors.ValidationFailure
	for field, err := range errs {
		if err == nil {
			continue
		}
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			failures = append(failures, collect(name, nested)...)
			continue
		}
		failures = append(failures, apperrors.ValidationFailure{PropertyName: name, ErrorMessage: err.Error()})
	}
	return failures
}

// PasswordStrength validates password meets minimum security requirements
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate checks if the password meets the configured requirements
func (p PasswordStrength) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	if p.RequireUpper && !strings.ContainsFunc(s, unicode.IsUpper) {
		return validation.NewError(
			"validation_password_uppercase",
			"password must contain at least one uppercase letter",
		)
	}

	if p.RequireLower && !strings.ContainsFunc(s, unicode.IsLower) {
		return validation.NewError(
			"validation_password_lowercase",
			"password must contain at least one lowercase letter",
		)
	}

	if p.RequireNumber && !strings.ContainsFunc(s, unicode.IsNumber) {
		return validation.NewError("validation_password_number", "password must contain at least one number")
	}

	if p.RequireSpecial && !strings.ContainsFunc(s, isSpecial) {
		return validation.NewError(
			"validation_password_special",
			"password must contain at least one special character",
		)
	}

	return nil
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Email validates an optional email with the given matcher. Nil and blank values pass.
func Email(isValid func(*string) bool) validation.Rule {
	return validation.By(func(value any) error {
		var email *string
		switch v := value.(type) {
		case *string:
			email = v
		case string:
			email = &v
		default:
			return validation.NewError("validation_email_type", "must be a string")
		}
		if !isValid(email) {
			return validation.NewError("validation_email_format", "must be a valid email address")
		}
		return nil
	})
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
