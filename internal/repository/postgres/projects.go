package postgres

import (
	"context"
	"time"

	"taskManager/internal/models/project"
	"taskManager/internal/models/role"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `p.id, p.name, p.description, p.status, p.color, p.owner_id, p.start_date, p.end_date, p.created_at, p.updated_at`

func projectDest(p *project.Project) []any {
	return []any{&p.ID, &p.Name, &p.Description, &p.Status, &p.Color, &p.OwnerID,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt}
}

func insertMember(ctx context.Context, q querier, m *project.Member) error {
	_, err := q.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`,
		m.ProjectID, m.UserID, m.Role.String(), m.JoinedAt)
	return err
}

func (s *Storage) CreateProject(ctx context.Context, p *project.Project, owner *project.Member) error {
	defer s.observe("create_project", time.Now())

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		query := `INSERT INTO projects (id, name, description, status, color, owner_id, start_date, end_date, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := tx.Exec(ctx, query,
			p.ID, p.Name, p.Description, p.Status, p.Color, p.OwnerID,
			p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}
		if owner != nil {
			return insertMember(ctx, tx, owner)
		}
		return nil
	})
	return mapError("create project", err)
}

func (s *Storage) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	defer s.observe("get_project", time.Now())

	var p project.Project
	err := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id).Scan(projectDest(&p)...)
	if err != nil {
		return nil, mapError("get project", err)
	}
	return &p, nil
}

func (s *Storage) UpdateProject(ctx context.Context, p *project.Project) error {
	defer s.observe("update_project", time.Now())

	query := `UPDATE projects
			SET name = $2,
				description = $3,
				status = $4,
				color = $5,
				start_date = $6,
				end_date = $7,
				updated_at = $8
			WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Status, p.Color, p.StartDate, p.EndDate, p.UpdatedAt)
	if err != nil {
		return mapError("update project", err)
	}
	return expectRows(tag)
}

func (s *Storage) DeleteProject(ctx context.Context, id uuid.UUID) error {
	defer s.observe("delete_project", time.Now())

	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapError("delete project", err)
	}
	return expectRows(tag)
}

func (s *Storage) ListProjects(ctx context.Context, f repo.ProjectFilter, pg repo.Page) ([]repo.ProjectRow, int, error) {
	defer s.observe("list_projects", time.Now())

	var c conditions
	c.add("pm.user_id = $%d", f.MemberID)
	if f.Status != nil {
		c.add("p.status = $%d", *f.Status)
	}
	if f.Role != nil {
		c.add("pm.role = $%d", f.Role.String())
	}
	if f.Search != "" {
		c.add("(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d)", likePattern(f.Search))
	}

	from := ` FROM projects p JOIN project_members pm ON pm.project_id = p.id`

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*)`+from+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count projects", err)
	}

	tail, args := c.page(pg)
	query := `SELECT ` + projectColumns + `, pm.role,
				(SELECT COUNT(*) FROM project_members m WHERE m.project_id = p.id)` +
		from + c.where() + ` ORDER BY p.created_at DESC, p.id` + tail

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list projects", err)
	}
	defer rows.Close()

	out := make([]repo.ProjectRow, 0)
	for rows.Next() {
		var (
			p       project.Project
			rawRole string
			count   int
		)
		if err := rows.Scan(append(projectDest(&p), &rawRole, &count)...); err != nil {
			return nil, 0, mapError("scan project", err)
		}
		r, err := role.Parse(rawRole)
		if err != nil {
			return nil, 0, mapError("scan project", err)
		}
		out = append(out, repo.ProjectRow{Project: &p, UserRole: r, MemberCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list projects", err)
	}
	return out, total, nil
}

func (s *Storage) TaskSummary(ctx context.Context, projectID uuid.UUID) (project.TaskSummary, error) {
	defer s.observe("task_summary", time.Now())

	var sum project.TaskSummary
	query := `SELECT COUNT(*),
				COUNT(*) FILTER (WHERE status = $2),
				COUNT(*) FILTER (WHERE status = $3),
				COUNT(*) FILTER (WHERE status = $4)
			FROM tasks WHERE project_id = $1`

	err := s.pool.QueryRow(ctx, query, projectID,
		task.StatusTodo, task.StatusInProgress, task.StatusDone,
	).Scan(&sum.Total, &sum.Todo, &sum.InProgress, &sum.Done)
	return sum, mapError("task summary", err)
}

const memberQuery = `SELECT pm.project_id, pm.user_id, pm.role, pm.joined_at, u.email, u.full_name
	FROM project_members pm JOIN users u ON u.id = pm.user_id`

func scanMember(row pgx.Row) (*project.Member, error) {
	var (
		m       project.Member
		rawRole string
	)
	if err := row.Scan(&m.ProjectID, &m.UserID, &rawRole, &m.JoinedAt, &m.Email, &m.FullName); err != nil {
		return nil, err
	}
	r, err := role.Parse(rawRole)
	if err != nil {
		return nil, err
	}
	m.Role = r
	return &m, nil
}

func (s *Storage) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*project.Member, error) {
	defer s.observe("get_member", time.Now())

	m, err := scanMember(s.pool.QueryRow(ctx,
		memberQuery+` WHERE pm.project_id = $1 AND pm.user_id = $2`, projectID, userID))
	return m, mapError("get member", err)
}

// ListMembers returns members in the order they joined.
func (s *Storage) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*project.Member, error) {
	defer s.observe("list_members", time.Now())

	rows, err := s.pool.Query(ctx,
		memberQuery+` WHERE pm.project_id = $1 ORDER BY pm.joined_at, pm.user_id`, projectID)
	if err != nil {
		return nil, mapError("list members", err)
	}
	defer rows.Close()

	out := make([]*project.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, mapError("scan member", err)
		}
		out = append(out, m)
	}
	return out, mapError("list members", rows.Err())
}

func (s *Storage) AddMember(ctx context.Context, m *project.Member) error {
	defer s.observe("add_member", time.Now())
	return mapError("add member", insertMember(ctx, s.pool, m))
}

func (s *Storage) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	defer s.observe("remove_member", time.Now())

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return mapError("remove member", err)
	}
	return expectRows(tag)
}
