package dto

import (
	"time"

	"taskManager/internal/models/optional"
	"taskManager/internal/models/user"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	User         *user.User `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type TokenInfo struct {
	Valid     bool      `json:"valid"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt int64     `json:"expires_at"`
}

func NewTokenInfo(u *user.User, expiresAt time.Time) TokenInfo {
	return TokenInfo{
		Valid:     true,
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		ExpiresAt: expiresAt.Unix(),
	}
}

type UpdateUserRequest struct {
	FullName        optional.Value[string] `json:"full_name"`
	Email           optional.Value[string] `json:"email"`
	AvatarURL       optional.Value[string] `json:"avatar_url"`
	CurrentPassword string                 `json:"current_password"`
	NewPassword     optional.Value[string] `json:"new_password"`
	Role            optional.Value[string] `json:"role"`
	IsActive        optional.Value[bool]   `json:"is_active"`
}
