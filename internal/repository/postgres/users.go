package postgres

import (
	"context"
	"time"

	"taskManager/internal/models/role"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, full_name, avatar_url, role, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u       user.User
		rawRole string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL,
		&rawRole, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Role, err = role.Parse(rawRole); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *user.User) error {
	defer s.observe("create_user", time.Now())

	query := `INSERT INTO users (` + userColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.AvatarURL,
		u.Role.String(), u.IsActive, u.LastLogin, u.CreatedAt, u.UpdatedAt)
	return mapError("create user", err)
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	defer s.observe("get_user", time.Now())

	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, mapError("get user", err)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	defer s.observe("get_user_by_email", time.Now())

	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	return u, mapError("get user by email", err)
}

func (s *Storage) UpdateUser(ctx context.Context, u *user.User) error {
	defer s.observe("update_user", time.Now())

	query := `UPDATE users
			SET email = $2,
				password_hash = $3,
				full_name = $4,
				avatar_url = $5,
				role = $6,
				is_active = $7,
				last_login = $8,
				updated_at = $9
			WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.AvatarURL,
		u.Role.String(), u.IsActive, u.LastLogin, u.UpdatedAt)
	if err != nil {
		return mapError("update user", err)
	}
	return expectRows(tag)
}

// DeleteUser relies on ON DELETE rules: owned projects, memberships,
// reported tasks and comments go with the user, assignments are cleared.
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	defer s.observe("delete_user", time.Now())

	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError("delete user", err)
	}
	return expectRows(tag)
}

func (s *Storage) ListUsers(ctx context.Context, f repo.UserFilter, p repo.Page) ([]*user.User, int, error) {
	defer s.observe("list_users", time.Now())

	var c conditions
	if f.Role != nil {
		c.add("role = $%d", f.Role.String())
	}
	if f.IsActive != nil {
		c.add("is_active = $%d", *f.IsActive)
	}
	if f.Search != "" {
		c.add("(email ILIKE $%[1]d OR full_name ILIKE $%[1]d)", likePattern(f.Search))
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count users", err)
	}

	tail, args := c.page(p)
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users`+c.where()+` ORDER BY created_at DESC, id`+tail, args...)
	if err != nil {
		return nil, 0, mapError("list users", err)
	}
	defer rows.Close()

	out := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapError("scan user", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list users", err)
	}
	return out, total, nil
}
