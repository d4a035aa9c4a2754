package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"taskManager/internal/models/role"
	"taskManager/internal/models/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used by SetPassword.
var PasswordCost = bcrypt.DefaultCost

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	AvatarURL    *string    `json:"avatar_url"`
	Role         role.Role  `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// New validates the input and returns an active user with a hashed password.
func New(email, password, fullName string, r role.Role) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if err := ValidateFullName(fullName); err != nil {
		return nil, err
	}
	if r == role.Unknown {
		r = role.Member
	}

	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  fullName,
		Role:      r,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword checks the strength policy and stores a new bcrypt hash.
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) UpdateLastLogin(now time.Time) {
	u.LastLogin = &now
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return validate.Field("email", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return validate.Field("email", "Invalid email format")
	}
	return nil
}

// ValidatePassword reports the first failed rule.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return validate.Field("password", "Password must be at least 8 characters long")
	}

	var upper, lower, digit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		}
	}

	if !upper {
		return validate.Field("password", "Password must contain at least one uppercase letter")
	}
	if !lower {
		return validate.Field("password", "Password must contain at least one lowercase letter")
	}
	if !digit {
		return validate.Field("password", "Password must contain at least one number")
	}
	return nil
}

func ValidateFullName(name string) error {
	if len([]rune(strings.TrimSpace(name))) < 2 {
		return validate.Field("full_name", "Full name must be at least 2 characters")
	}
	return nil
}
