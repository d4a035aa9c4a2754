package postgres

import (
	"context"
	"time"

	"taskManager/internal/models/task"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const commentQuery = `SELECT c.id, c.task_id, c.user_id, c.parent_comment_id, c.content, c.is_edited,
		c.created_at, c.updated_at, u.full_name
	FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row pgx.Row) (*task.Comment, error) {
	var c task.Comment
	err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.ParentID, &c.Content, &c.IsEdited,
		&c.CreatedAt, &c.UpdatedAt, &c.AuthorName)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) CreateComment(ctx context.Context, c *task.Comment) error {
	defer s.observe("create_comment", time.Now())

	query := `INSERT INTO comments (id, task_id, user_id, parent_comment_id, content, is_edited, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		c.ID, c.TaskID, c.UserID, c.ParentID, c.Content, c.IsEdited, c.CreatedAt, c.UpdatedAt)
	return mapError("create comment", err)
}

func (s *Storage) GetComment(ctx context.Context, id uuid.UUID) (*task.Comment, error) {
	defer s.observe("get_comment", time.Now())

	c, err := scanComment(s.pool.QueryRow(ctx, commentQuery+` WHERE c.id = $1`, id))
	return c, mapError("get comment", err)
}

func (s *Storage) UpdateComment(ctx context.Context, c *task.Comment) error {
	defer s.observe("update_comment", time.Now())

	tag, err := s.pool.Exec(ctx,
		`UPDATE comments SET content = $2, is_edited = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Content, c.IsEdited, c.UpdatedAt)
	if err != nil {
		return mapError("update comment", err)
	}
	return expectRows(tag)
}

// DeleteComment removes the comment; replies follow through ON DELETE CASCADE.
func (s *Storage) DeleteComment(ctx context.Context, id uuid.UUID) error {
	defer s.observe("delete_comment", time.Now())

	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapError("delete comment", err)
	}
	return expectRows(tag)
}

// ListComments returns the task's comments oldest first.
func (s *Storage) ListComments(ctx context.Context, taskID uuid.UUID) ([]*task.Comment, error) {
	defer s.observe("list_comments", time.Now())

	rows, err := s.pool.Query(ctx,
		commentQuery+` WHERE c.task_id = $1 ORDER BY c.created_at, c.id`, taskID)
	if err != nil {
		return nil, mapError("list comments", err)
	}
	defer rows.Close()

	out := make([]*task.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, mapError("scan comment", err)
		}
		out = append(out, c)
	}
	return out, mapError("list comments", rows.Err())
}
