package service

import (
	"context"
	"errors"
	"time"

	"taskManager/internal/access"
	"taskManager/internal/logger"
	"taskManager/internal/models/optional"
	"taskManager/internal/models/project"
	"taskManager/internal/models/role"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ReasonOwnershipTransfer = "OWNERSHIP_TRANSFER_UNSUPPORTED"

type ProjectService struct {
	projects ProjectRepository
	users    UserRepository
}

func NewProjectService(projects ProjectRepository, users UserRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
	}
}

var denyMessages = map[access.Action]string{
	access.ViewProject:      "You do not have access to this project",
	access.UpdateProject:    "You do not have permission to update this project",
	access.DeleteProject:    "Only project admins can delete the project",
	access.AddMember:        "You do not have permission to add members",
	access.RemoveMember:     "Only project admins can remove members",
	access.ViewTask:         "You do not have access to this task",
	access.CreateTask:       "You do not have access to this project",
	access.ModifyTask:       "You do not have permission to modify this task",
	access.CommentTask:      "You do not have access to this task",
	access.ModifyComment:    "You do not have permission to modify this comment",
	access.UploadAttachment: "You do not have access to this task",
}

// membership returns nil without error when the user is not a member.
func membership(ctx context.Context, projects ProjectRepository, projectID, userID uuid.UUID) (*project.Member, error) {
	m, err := projects.GetMember(ctx, projectID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get membership", "Member", err)
	}
	return m, nil
}

// authorize asks the access engine and turns a denial into FORBIDDEN.
func authorize(ctx context.Context, projects ProjectRepository, caller access.Caller, action access.Action, projectID, ownerID uuid.UUID) (*project.Member, error) {
	m, err := membership(ctx, projects, projectID, caller.UserID)
	if err != nil {
		return nil, err
	}

	d := access.Decide(caller, action, access.Resource{Membership: m, OwnerID: ownerID})
	if !d.Allowed {
		logger.Warn("Service: access denied",
			zap.String("user_id", caller.UserID.String()),
			zap.String("project_id", projectID.String()),
			zap.String("action", action.String()),
			zap.String("reason", d.Reason))
		return m, NewForbidden(denyMessages[action], d.Reason)
	}
	return m, nil
}

type ProjectFilterInput struct {
	Status string
	Role   string
	Search string
}

// List returns projects the caller is a member of, newest first.
func (s *ProjectService) List(ctx context.Context, caller access.Caller, in ProjectFilterInput, page Pagination) (Paginated[repo.ProjectRow], error) {
	filter := repo.ProjectFilter{MemberID: caller.UserID, Search: in.Search}
	if in.Status != "" {
		st, err := project.ParseStatus(in.Status)
		if err != nil {
			return Paginated[repo.ProjectRow]{}, invalid(err)
		}
		filter.Status = &st
	}
	if in.Role != "" {
		r, err := role.Parse(in.Role)
		if err != nil {
			return Paginated[repo.ProjectRow]{}, invalid(err)
		}
		filter.Role = &r
	}

	rows, total, err := s.projects.ListProjects(ctx, filter, page.repoPage())
	if err != nil {
		return Paginated[repo.ProjectRow]{}, storageError("list projects", "Project", err)
	}
	return Paginated[repo.ProjectRow]{Items: rows, Pagination: page, Total: total}, nil
}

type CreateProjectInput struct {
	Name        string
	Description *string
	Status      string
	Color       string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create makes the caller owner and ADMIN member of the new project.
func (s *ProjectService) Create(ctx context.Context, caller access.Caller, in CreateProjectInput) (*ProjectDetail, error) {
	opts := []project.Option{
		project.WithDescription(in.Description),
		project.WithStartDate(in.StartDate),
		project.WithEndDate(in.EndDate),
	}
	if in.Status != "" {
		st, err := project.ParseStatus(in.Status)
		if err != nil {
			return nil, invalid(err)
		}
		opts = append(opts, project.WithStatus(st))
	}
	if in.Color != "" {
		opts = append(opts, project.WithColor(in.Color))
	}

	p, err := project.New(in.Name, caller.UserID, opts...)
	if err != nil {
		return nil, invalid(err)
	}

	owner := &project.Member{
		ProjectID: p.ID,
		UserID:    caller.UserID,
		Role:      role.Admin,
		JoinedAt:  p.CreatedAt,
	}
	if err := s.projects.CreateProject(ctx, p, owner); err != nil {
		return nil, storageError("create project", "Project", err)
	}

	logger.Info("Service: project created",
		zap.String("project_id", p.ID.String()),
		zap.String("owner_id", caller.UserID.String()))
	return s.detail(ctx, p, owner)
}

// ProjectDetail is a project with its members and task counts. UserRole is
// role.Unknown when a global admin views a project they are not part of.
type ProjectDetail struct {
	Project     *project.Project
	UserRole    role.Role
	Members     []*project.Member
	TaskSummary project.TaskSummary
}

func (s *ProjectService) detail(ctx context.Context, p *project.Project, m *project.Member) (*ProjectDetail, error) {
	members, err := s.projects.ListMembers(ctx, p.ID)
	if err != nil {
		return nil, storageError("list members", "Member", err)
	}
	summary, err := s.projects.TaskSummary(ctx, p.ID)
	if err != nil {
		return nil, storageError("task summary", "Project", err)
	}

	d := &ProjectDetail{Project: p, Members: members, TaskSummary: summary}
	if m != nil {
		d.UserRole = m.Role
	}
	return d, nil
}

func (s *ProjectService) Get(ctx context.Context, caller access.Caller, id uuid.UUID) (*ProjectDetail, error) {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, storageError("get project", "Project", err)
	}
	m, err := authorize(ctx, s.projects, caller, access.ViewProject, p.ID, p.OwnerID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p, m)
}

type UpdateProjectInput struct {
	Name        optional.Value[string]
	Description optional.Value[string]
	Status      optional.Value[string]
	Color       optional.Value[string]
	StartDate   optional.Value[time.Time]
	EndDate     optional.Value[time.Time]
}

func (in UpdateProjectInput) options() ([]project.Option, error) {
	switch {
	case in.Name.Null:
		return nil, notNull("name")
	case in.Status.Null:
		return nil, notNull("status")
	}

	var opts []project.Option
	if in.Name.Set {
		opts = append(opts, project.WithName(in.Name.Value))
	}
	if in.Description.Set {
		opts = append(opts, project.WithDescription(in.Description.Ptr()))
	}
	if in.Status.Set {
		st, err := project.ParseStatus(in.Status.Value)
		if err != nil {
			return nil, invalid(err)
		}
		opts = append(opts, project.WithStatus(st))
	}
	if in.Color.Set {
		color := in.Color.Value
		if in.Color.Null {
			color = project.DefaultColor
		}
		opts = append(opts, project.WithColor(color))
	}
	if in.StartDate.Set {
		opts = append(opts, project.WithStartDate(in.StartDate.Ptr()))
	}
	if in.EndDate.Set {
		opts = append(opts, project.WithEndDate(in.EndDate.Ptr()))
	}
	return opts, nil
}

// Update needs project MANAGER or ADMIN, or ownership of the project.
func (s *ProjectService) Update(ctx context.Context, caller access.Caller, id uuid.UUID, in UpdateProjectInput) (*ProjectDetail, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}

	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, storageError("update project", "Project", err)
	}
	m, err := authorize(ctx, s.projects, caller, access.UpdateProject, p.ID, p.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := p.Apply(opts...); err != nil {
		return nil, invalid(err)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.projects.UpdateProject(ctx, p); err != nil {
		return nil, storageError("update project", "Project", err)
	}
	return s.detail(ctx, p, m)
}

// Delete removes the project; members and tasks go with it.
func (s *ProjectService) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return storageError("delete project", "Project", err)
	}
	if _, err := authorize(ctx, s.projects, caller, access.DeleteProject, p.ID, p.OwnerID); err != nil {
		return err
	}

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return storageError("delete project", "Project", err)
	}
	logger.Info("Service: project deleted", zap.String("project_id", id.String()))
	return nil
}

type AddMemberInput struct {
	UserID uuid.UUID
	Role   string
}

// AddMember needs project MANAGER or ADMIN. A member cannot hand out a role
// above their own.
func (s *ProjectService) AddMember(ctx context.Context, caller access.Caller, projectID uuid.UUID, in AddMemberInput) (*project.Member, error) {
	if in.UserID == uuid.Nil {
		return nil, NewValidationError("user_id", "user_id is required")
	}
	r := role.Member
	if in.Role != "" {
		parsed, err := role.Parse(in.Role)
		if err != nil {
			return nil, invalid(err)
		}
		r = parsed
	}

	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, storageError("add member", "Project", err)
	}
	m, err := authorize(ctx, s.projects, caller, access.AddMember, p.ID, p.OwnerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && m != nil && r.Compare(m.Role) > 0 {
		return nil, NewForbidden("Cannot grant a role above your own", access.ReasonInsufficientRole)
	}

	u, err := s.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, storageError("add member", "User", err)
	}
	if !u.IsActive {
		return nil, NewValidationError("user_id", "Cannot add inactive user")
	}

	member := &project.Member{
		ProjectID: p.ID,
		UserID:    u.ID,
		Role:      r,
		JoinedAt:  time.Now().UTC(),
		Email:     u.Email,
		FullName:  u.FullName,
	}
	if err := s.projects.AddMember(ctx, member); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, NewConflict("User is already a member of this project")
		}
		return nil, storageError("add member", "Member", err)
	}

	logger.Info("Service: member added",
		zap.String("project_id", p.ID.String()),
		zap.String("user_id", u.ID.String()),
		zap.String("role", r.String()))
	return member, nil
}

// RemoveMember needs project ADMIN. The owner's ADMIN membership cannot be
// removed since ownership transfer is not offered.
func (s *ProjectService) RemoveMember(ctx context.Context, caller access.Caller, projectID, userID uuid.UUID) error {
	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return storageError("remove member", "Project", err)
	}
	if _, err := authorize(ctx, s.projects, caller, access.RemoveMember, p.ID, p.OwnerID); err != nil {
		return err
	}

	target, err := s.projects.GetMember(ctx, projectID, userID)
	if err != nil {
		return storageError("remove member", "Member", err)
	}
	if target.IsOwnerAdmin(p) {
		return NewBusinessError(CodeConflict,
			"Cannot remove the project owner. Reassign ownership first; ownership transfer is not supported.",
			ToDetail("reason", ReasonOwnershipTransfer))
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return storageError("remove member", "Member", err)
	}
	logger.Info("Service: member removed",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()))
	return nil
}
