package postgres

import (
	"context"
	"time"

	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.project_id, t.assignee_id, t.reporter_id,
	t.position, t.due_date, t.completed_at, t.estimated_hours, t.actual_hours, t.tags, t.created_at, t.updated_at`

func taskDest(t *task.Task) []any {
	return []any{&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.ReporterID,
		&t.Position, &t.DueDate, &t.CompletedAt, &t.EstimatedHours, &t.ActualHours, &t.Tags, &t.CreatedAt, &t.UpdatedAt}
}

func tags(t *task.Task) []string {
	if t.Tags == nil {
		return []string{}
	}
	return t.Tags
}

func (s *Storage) CreateTask(ctx context.Context, t *task.Task) error {
	defer s.observe("create_task", time.Now())

	query := `INSERT INTO tasks (id, title, description, status, priority, project_id, assignee_id, reporter_id,
				position, due_date, completed_at, estimated_hours, actual_hours, tags, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.ProjectID, t.AssigneeID, t.ReporterID,
		t.Position, t.DueDate, t.CompletedAt, t.EstimatedHours, t.ActualHours, tags(t), t.CreatedAt, t.UpdatedAt)
	return mapError("create task", err)
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	defer s.observe("get_task", time.Now())

	var t task.Task
	err := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id).Scan(taskDest(&t)...)
	if err != nil {
		return nil, mapError("get task", err)
	}
	return &t, nil
}

func (s *Storage) UpdateTask(ctx context.Context, t *task.Task) error {
	defer s.observe("update_task", time.Now())

	query := `UPDATE tasks
			SET title = $2,
				description = $3,
				status = $4,
				priority = $5,
				assignee_id = $6,
				position = $7,
				due_date = $8,
				completed_at = $9,
				estimated_hours = $10,
				actual_hours = $11,
				tags = $12,
				updated_at = $13
			WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.Position,
		t.DueDate, t.CompletedAt, t.EstimatedHours, t.ActualHours, tags(t), t.UpdatedAt)
	if err != nil {
		return mapError("update task", err)
	}
	return expectRows(tag)
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	defer s.observe("delete_task", time.Now())

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return mapError("delete task", err)
	}
	return expectRows(tag)
}

func (s *Storage) ListTasks(ctx context.Context, f repo.TaskFilter, p repo.Page) ([]repo.TaskRow, int, error) {
	defer s.observe("list_tasks", time.Now())

	var c conditions
	if f.ProjectID != nil {
		c.add("t.project_id = $%d", *f.ProjectID)
	} else {
		c.add("t.project_id IN (SELECT project_id FROM project_members WHERE user_id = $%d)", f.MemberID)
	}
	if f.Status != nil {
		c.add("t.status = $%d", *f.Status)
	}
	if f.Priority != nil {
		c.add("t.priority = $%d", *f.Priority)
	}
	if f.AssigneeID != nil {
		c.add("t.assignee_id = $%d", *f.AssigneeID)
	}
	if f.ReporterID != nil {
		c.add("t.reporter_id = $%d", *f.ReporterID)
	}
	if f.Search != "" {
		c.add("(t.title ILIKE $%[1]d OR t.description ILIKE $%[1]d)", likePattern(f.Search))
	}
	if f.DueBefore != nil {
		c.add("t.due_date <= $%d", *f.DueBefore)
	}
	if f.DueAfter != nil {
		c.add("t.due_date >= $%d", *f.DueAfter)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count tasks", err)
	}

	tail, args := c.page(p)
	query := `SELECT ` + taskColumns + `,
				(SELECT COUNT(*) FROM comments c WHERE c.task_id = t.id),
				(SELECT COUNT(*) FROM attachments a WHERE a.task_id = t.id)
			FROM tasks t` + c.where() + ` ORDER BY t.created_at DESC, t.id` + tail

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list tasks", err)
	}
	defer rows.Close()

	out := make([]repo.TaskRow, 0)
	for rows.Next() {
		var row repo.TaskRow
		row.Task = &task.Task{}
		if err := rows.Scan(append(taskDest(row.Task), &row.CommentCount, &row.AttachmentCount)...); err != nil {
			return nil, 0, mapError("scan task", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list tasks", err)
	}
	return out, total, nil
}

func (s *Storage) ListAttachments(ctx context.Context, taskID uuid.UUID) ([]*task.Attachment, error) {
	defer s.observe("list_attachments", time.Now())

	rows, err := s.pool.Query(ctx, `SELECT id, task_id, uploaded_by, filename, original_filename,
				file_size, mime_type, storage_url, storage_key, created_at
			FROM attachments WHERE task_id = $1 ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, mapError("list attachments", err)
	}
	defer rows.Close()

	out := make([]*task.Attachment, 0)
	for rows.Next() {
		var a task.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.UploadedBy, &a.Filename, &a.OriginalFilename,
			&a.FileSize, &a.MimeType, &a.StorageURL, &a.StorageKey, &a.CreatedAt); err != nil {
			return nil, mapError("scan attachment", err)
		}
		out = append(out, &a)
	}
	return out, mapError("list attachments", rows.Err())
}
