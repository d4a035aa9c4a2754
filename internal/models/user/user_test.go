package user_test

import (
	"testing"
	"time"

	"taskManager/internal/models/role"
	"taskManager/internal/models/user"
	"taskManager/internal/models/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	user.PasswordCost = bcrypt.MinCost
}

// TestValidatePassword checks that every rule has its own message
func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		message  string
	}{
		{name: "too short", password: "Ab1", message: "Password must be at least 8 characters long"},
		{name: "no upper", password: "abcdefg1", message: "Password must contain at least one uppercase letter"},
		{name: "no lower", password: "ABCDEFG1", message: "Password must contain at least one lowercase letter"},
		{name: "no digit", password: "Abcdefgh", message: "Password must contain at least one number"},
		{name: "valid", password: "Abcdefg1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := user.ValidatePassword(tt.password)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			var fieldErr *validate.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, "password", fieldErr.Field)
			assert.Equal(t, tt.message, fieldErr.Message)
		})
	}
}

func TestNew(t *testing.T) {
	u, err := user.New("  Alice@Example.COM ", "Secret123", " Alice ", role.Unknown)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.FullName)
	assert.Equal(t, role.Member, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "Secret123", u.PasswordHash)
	assert.True(t, u.CheckPassword("Secret123"))
	assert.False(t, u.CheckPassword("secret123"))
}

func TestNew_Invalid(t *testing.T) {
	_, err := user.New("not-an-email", "Secret123", "Alice", role.Member)
	assert.EqualError(t, err, "Invalid email format")

	_, err = user.New("a@b.io", "Secret123", "A", role.Member)
	assert.EqualError(t, err, "Full name must be at least 2 characters")

	_, err = user.New("a@b.io", "short", "Alice", role.Member)
	assert.EqualError(t, err, "Password must be at least 8 characters long")
}

func TestSetPassword_Rotates(t *testing.T) {
	u, err := user.New("bob@example.com", "Secret123", "Bob", role.Viewer)
	require.NoError(t, err)
	old := u.PasswordHash

	require.NoError(t, u.SetPassword("Another123"))
	assert.NotEqual(t, old, u.PasswordHash)
	assert.True(t, u.CheckPassword("Another123"))
	assert.False(t, u.CheckPassword("Secret123"))

	assert.Error(t, u.SetPassword("weak"))
	assert.True(t, u.CheckPassword("Another123"))
}

func TestUpdateLastLogin(t *testing.T) {
	u := &user.User{}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	u.UpdateLastLogin(now)
	require.NotNil(t, u.LastLogin)
	assert.Equal(t, now, *u.LastLogin)
}
