package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskManager/internal/access"
	"taskManager/internal/auth"
	"taskManager/internal/logger"
	"taskManager/internal/models/optional"
	"taskManager/internal/models/role"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	users  UserRepository
	tokens TokenIssuer
	// allowElevated lets self registration pick MANAGER or ADMIN.
	allowElevated bool
}

func NewUserService(users UserRepository, tokens TokenIssuer, allowElevatedSignup bool) *UserService {
	return &UserService{
		users:         users,
		tokens:        tokens,
		allowElevated: allowElevatedSignup,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	r := role.Member
	if in.Role != "" {
		parsed, err := role.Parse(in.Role)
		if err != nil {
			return nil, invalid(err)
		}
		r = parsed
	}
	if !s.allowElevated && r.AtLeast(role.Manager) {
		return nil, NewForbidden("Registration can only create MEMBER or VIEWER accounts", access.ReasonInsufficientRole)
	}

	u, err := user.New(in.Email, in.Password, in.FullName, r)
	if err != nil {
		return nil, invalid(err)
	}

	if _, err := s.users.GetUserByEmail(ctx, u.Email); err == nil {
		return nil, NewConflict("Email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, storageError("register", "User", err)
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, NewConflict("Email already registered")
		}
		return nil, storageError("register", "User", err)
	}

	logger.Info("Service: user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role.String()))
	return u, nil
}

type LoginResult struct {
	User   *user.User
	Tokens auth.Pair
}

// Login gives the same answer for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, NewValidationError("email", "Email and password are required")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewUnauthenticated("Invalid email or password")
		}
		return nil, storageError("login", "User", err)
	}
	if !u.CheckPassword(password) {
		logger.Warn("Service: failed login", zap.String("user_id", u.ID.String()))
		return nil, NewUnauthenticated("Invalid email or password")
	}
	if !u.IsActive {
		return nil, NewUnauthenticated("Account is disabled. Contact administrator.")
	}

	now := time.Now().UTC()
	u.UpdateLastLogin(now)
	u.UpdatedAt = now
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, storageError("login", "User", err)
	}

	pair, err := s.tokens.IssuePair(u)
	if err != nil {
		return nil, NewInternal("issue tokens", err)
	}
	return &LoginResult{User: u, Tokens: pair}, nil
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

// Refresh mints a new access token after checking that the user still exists
// and is active.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TokenRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, NewUnauthenticated("Refresh token has expired")
		}
		return nil, NewUnauthenticated("Invalid refresh token")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, NewUnauthenticated("Invalid refresh token")
	}

	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewUnauthenticated("Invalid user or account disabled")
		}
		return nil, storageError("refresh", "User", err)
	}
	if !u.IsActive {
		return nil, NewUnauthenticated("Invalid user or account disabled")
	}

	token, _, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, NewInternal("issue access token", err)
	}
	return &RefreshResult{AccessToken: token, ExpiresIn: int64(s.tokens.AccessTTL().Seconds())}, nil
}

// Me returns the caller's own record.
func (s *UserService) Me(ctx context.Context, caller access.Caller) (*user.User, error) {
	u, err := s.users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, storageError("me", "User", err)
	}
	if !u.IsActive {
		return nil, NewUnauthenticated("Account is disabled")
	}
	return u, nil
}

type UserFilterInput struct {
	Role     string
	IsActive *bool
	Search   string
}

func (s *UserService) ListUsers(ctx context.Context, caller access.Caller, in UserFilterInput, page Pagination) (Paginated[*user.User], error) {
	if !caller.IsAdmin() {
		return Paginated[*user.User]{}, NewForbidden("Admin access required", access.ReasonInsufficientRole)
	}

	filter := repo.UserFilter{IsActive: in.IsActive, Search: in.Search}
	if in.Role != "" {
		r, err := role.Parse(in.Role)
		if err != nil {
			return Paginated[*user.User]{}, invalid(err)
		}
		filter.Role = &r
	}

	users, total, err := s.users.ListUsers(ctx, filter, page.repoPage())
	if err != nil {
		return Paginated[*user.User]{}, storageError("list users", "User", err)
	}
	return Paginated[*user.User]{Items: users, Pagination: page, Total: total}, nil
}

func (s *UserService) GetUser(ctx context.Context, caller access.Caller, id uuid.UUID) (*user.User, error) {
	if caller.UserID != id && !caller.IsAdmin() {
		return nil, NewForbidden("You can only view your own profile", access.ReasonInsufficientRole)
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storageError("get user", "User", err)
	}
	return u, nil
}

type UpdateUserInput struct {
	FullName        optional.Value[string]
	Email           optional.Value[string]
	AvatarURL       optional.Value[string]
	CurrentPassword string
	NewPassword     optional.Value[string]
	Role            optional.Value[string]
	IsActive        optional.Value[bool]
}

// UpdateUser lets users edit their own profile and admins edit anyone.
// Changing one's own email or password needs the current password.
func (s *UserService) UpdateUser(ctx context.Context, caller access.Caller, id uuid.UUID, in UpdateUserInput) (*user.User, error) {
	self := caller.UserID == id
	if !self && !caller.IsAdmin() {
		return nil, NewForbidden("You can only update your own profile", access.ReasonInsufficientRole)
	}

	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storageError("update user", "User", err)
	}

	if in.FullName.Set {
		name := strings.TrimSpace(in.FullName.Value)
		if err := user.ValidateFullName(name); err != nil {
			return nil, invalid(err)
		}
		u.FullName = name
	}

	if in.AvatarURL.Set {
		u.AvatarURL = in.AvatarURL.Ptr()
	}

	if self {
		if in.Email.Set || in.NewPassword.Set {
			if in.CurrentPassword == "" {
				return nil, NewValidationError("current_password", "current_password is required to change email or password")
			}
			if !u.CheckPassword(in.CurrentPassword) {
				return nil, NewUnauthenticated("Current password is incorrect")
			}
		}
		if in.NewPassword.Set {
			if err := u.SetPassword(in.NewPassword.Value); err != nil {
				return nil, invalid(err)
			}
		}
	} else {
		if in.Role.Set {
			r, err := role.Parse(in.Role.Value)
			if err != nil {
				return nil, invalid(err)
			}
			u.Role = r
		}
		if in.IsActive.Set && !in.IsActive.Null {
			u.IsActive = in.IsActive.Value
		}
	}

	if in.Email.Set {
		email := user.NormalizeEmail(in.Email.Value)
		if err := user.ValidateEmail(email); err != nil {
			return nil, invalid(err)
		}
		u.Email = email
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, NewConflict("Email already in use")
		}
		return nil, storageError("update user", "User", err)
	}
	return u, nil
}

// DeleteUser deactivates an account. With hard set the row is removed and
// the database cascades to owned projects, reported tasks and comments.
func (s *UserService) DeleteUser(ctx context.Context, caller access.Caller, id uuid.UUID, hard bool) error {
	if !caller.IsAdmin() {
		return NewForbidden("Admin access required", access.ReasonInsufficientRole)
	}
	if caller.UserID == id {
		return NewValidationError("id", "Cannot delete your own account")
	}

	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return storageError("delete user", "User", err)
	}

	if hard {
		if err := s.users.DeleteUser(ctx, id); err != nil {
			return storageError("delete user", "User", err)
		}
		logger.Info("Service: user deleted", zap.String("user_id", id.String()))
		return nil
	}

	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return storageError("deactivate user", "User", err)
	}
	logger.Info("Service: user deactivated", zap.String("user_id", id.String()))
	return nil
}
