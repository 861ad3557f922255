package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

func strPtr(s string) *string { return &s }

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email *string
		want  bool
	}{
		{name: "nil", email: nil, want: true},
		{name: "empty", email: strPtr(""), want: true},
		{name: "whitespace", email: strPtr("   "), want: true},
		{name: "simple", email: strPtr("john@example.com"), want: true},
		{name: "surrounding spaces", email: strPtr("  john@example.com  "), want: true},
		{name: "missing at", email: strPtr("john.example.com"), want: false},
		{name: "missing dot after at", email: strPtr("john@example"), want: false},
		{name: "inner space", email: strPtr("jo hn@example.com"), want: false},
		{name: "double at", email: strPtr("john@@example.com"), want: false},
		{name: "too long", email: strPtr(strings.Repeat("a", 320) + "@example.com"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsValidEmail_AdversarialInputIsFast(t *testing.T) {
	input := strings.Repeat("a@", 150) + strings.Repeat("@", 10)
	start := time.Now()
	IsValidEmail(&input)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestNewUser(t *testing.T) {
	externalID := uuid.New()

	t.Run("Success_TrimsFields", func(t *testing.T) {
		user, err := NewUser(externalID, " john ", " John ", " Doe ", " operators ", strPtr(" john@example.com "))

		require.NoError(t, err)
		assert.Equal(t, int64(0), user.ID)
		assert.Equal(t, externalID, user.ExternalID)
		assert.Equal(t, "john", user.Username)
		assert.Equal(t, "John", user.FirstName)
		assert.Equal(t, "Doe", user.LastName)
		assert.Equal(t, "operators", user.Group)
		require.NotNil(t, user.Email)
		assert.Equal(t, "john@example.com", *user.Email)
	})

	t.Run("Success_BlankEmailIsAbsent", func(t *testing.T) {
		user, err := NewUser(externalID, "john", "John", "Doe", "operators", strPtr("  "))

		require.NoError(t, err)
		assert.Nil(t, user.Email)
		assert.Equal(t, "", user.EmailValue())
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		user, err := NewUser(externalID, "john", "John", "Doe", "operators", strPtr("not-an-email"))

		assert.Nil(t, user)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindDomain, appErr.Kind)
		assert.Equal(t, CodeInvalidEmail, appErr.Code)
		assert.Equal(t, "The email 'not-an-email' is not valid.", appErr.Message)
	})
}

func TestUser_Update(t *testing.T) {
	externalID := uuid.New()

	t.Run("Success_KeepsIdentity", func(t *testing.T) {
		user, err := NewUser(externalID, "john", "John", "Doe", "operators", nil)
		require.NoError(t, err)
		user.ID = 42

		err = user.Update(" jane ", "Jane", "Roe", "administrators", strPtr("jane@example.com"))

		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, externalID, user.ExternalID)
		assert.Equal(t, "jane", user.Username)
		assert.Equal(t, "administrators", user.Group)
		assert.Equal(t, "jane@example.com", user.EmailValue())
	})

	t.Run("Error_InvalidEmailLeavesUserUntouched", func(t *testing.T) {
		user, err := NewUser(externalID, "john", "John", "Doe", "operators", nil)
		require.NoError(t, err)

		err = user.Update("jane", "Jane", "Roe", "administrators", strPtr("bad"))

		require.Error(t, err)
		assert.Equal(t, "john", user.Username)
		assert.Equal(t, "operators", user.Group)
	})
}

func TestDomainErrors(t *testing.T) {
	assert.Equal(t, "The user 'john' already exists.", UserAlreadyExists("john").Message)
	assert.Equal(t, "The email 'N/A' is not valid.", InvalidEmail(nil).Message)
	assert.Equal(t, "User with ID 9 not found.", UserNotFound(9).Message)
	assert.Equal(t, "Group 'guests' does not exist.", GroupNotFound("guests").Message)
	assert.True(t, apperrors.Is(UserNotFound(9), apperrors.ErrNotFound))
}

func TestIsValidGroup(t *testing.T) {
	assert.True(t, IsValidGroup("administrators"))
	assert.True(t, IsValidGroup("operators"))
	assert.False(t, IsValidGroup("Operators"))
	assert.False(t, IsValidGroup("guests"))
	assert.False(t, IsValidGroup(""))
}
