// Package domain defines the user aggregate, the managed groups and the
// query specifications used to read users from the store.
package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxEmailLength caps the input handed to the email matcher.
const maxEmailLength = 320

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is an application user. The local row and the identity provider record
// identified by ExternalID are two halves of the same user.
type User struct {
	ID         int64
	ExternalID uuid.UUID
	Username   string
	FirstName  string
	LastName   string
	Group      string
	Email      *string
	CreatedAt  time.Time
	CreatedBy  string
	UpdatedAt  *time.Time
	UpdatedBy  *string
}

// IsValidEmail reports whether email is acceptable. Absent or blank emails are valid.
func IsValidEmail(email *string) bool {
	if email == nil {
		return true
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return true
	}
	if len(trimmed) > maxEmailLength {
		return false
	}
	return emailRegex.MatchString(trimmed)
}

// NewUser builds a user that has not been persisted yet. Every string field is
// trimmed; a blank email is stored as absent.
func NewUser(externalID uuid.UUID, username, firstName, lastName, group string, email *string) (*User, error) {
	if !IsValidEmail(email) {
		return nil, InvalidEmail(email)
	}

	return &User{
		ExternalID: externalID,
		Username:   strings.TrimSpace(username),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Group:      strings.TrimSpace(group),
		Email:      normalizeEmail(email),
	}, nil
}

// Update replaces the mutable fields. ID and ExternalID never change.
func (u *User) Update(username, firstName, lastName, group string, email *string) error {
	if !IsValidEmail(email) {
		return InvalidEmail(email)
	}

	u.Username = strings.TrimSpace(username)
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Group = strings.TrimSpace(group)
	u.Email = normalizeEmail(email)
	return nil
}

// EmailValue returns the email or an empty string.
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// MarkCreated records the insert audit fields.
func (u *User) MarkCreated(at time.Time, by string) {
	u.CreatedAt = at
	u.CreatedBy = by
}

// MarkModified records the update audit fields.
func (u *User) MarkModified(at time.Time, by string) {
	u.UpdatedAt = &at
	u.UpdatedBy = &by
}
