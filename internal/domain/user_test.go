package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("learner@example.com", "password123")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.Equal(t, "password123", user.Password)
	assert.Equal(t, "en", user.NativeLanguage)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
	assert.Nil(t, user.LastLoginAt)
}

func TestNewUser_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "password123", ErrEmptyEmail},
		{"missing at sign", "learner.example.com", "password123", ErrInvalidEmail},
		{"missing domain dot", "learner@example", "password123", ErrInvalidEmail},
		{"at sign first", "@example.com", "password123", ErrInvalidEmail},
		{"at sign last", "learner@", "password123", ErrInvalidEmail},
		{"password too short", "learner@example.com", "short", ErrPasswordTooShort},
		{"password too long", "learner@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUser_Validate_StoredUser(t *testing.T) {
	// A user loaded from the store has a hash but no plaintext password.
	user := &User{
		ID:             uuid.New(),
		Email:          "learner@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}

func TestUser_Validate_EmptyID(t *testing.T) {
	user := &User{Email: "learner@example.com", Password: "password123"}
	assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
}
