package service

import (
	"context"
	"errors"
	"time"

	"taskManager/internal/access"
	"taskManager/internal/logger"
	"taskManager/internal/models/optional"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	tasks    TaskRepository
	projects ProjectRepository
	users    UserRepository
}

func NewTaskService(tasks TaskRepository, projects ProjectRepository, users UserRepository) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
	}
}

type TaskFilterInput struct {
	ProjectID  *uuid.UUID
	Status     string
	Priority   string
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
	Search     string
	DueBefore  *time.Time
	DueAfter   *time.Time
}

// List needs a project unless the caller is a global admin, who then sees
// tasks of every project they belong to.
func (s *TaskService) List(ctx context.Context, caller access.Caller, in TaskFilterInput, page Pagination) (Paginated[repo.TaskRow], error) {
	var empty Paginated[repo.TaskRow]

	filter := repo.TaskFilter{
		ProjectID:  in.ProjectID,
		MemberID:   caller.UserID,
		AssigneeID: in.AssignedTo,
		ReporterID: in.CreatedBy,
		Search:     in.Search,
		DueBefore:  in.DueBefore,
		DueAfter:   in.DueAfter,
	}
	if in.Status != "" {
		st, err := task.ParseStatus(in.Status)
		if err != nil {
			return empty, invalid(err)
		}
		filter.Status = &st
	}
	if in.Priority != "" {
		pr, err := task.ParsePriority(in.Priority)
		if err != nil {
			return empty, invalid(err)
		}
		filter.Priority = &pr
	}

	if in.ProjectID == nil {
		if !caller.IsAdmin() {
			return empty, NewValidationError("project_id", "project_id is required")
		}
	} else {
		p, err := s.projects.GetProject(ctx, *in.ProjectID)
		if err != nil {
			return empty, storageError("list tasks", "Project", err)
		}
		if _, err := authorize(ctx, s.projects, caller, access.ViewTask, p.ID, p.OwnerID); err != nil {
			return empty, err
		}
	}

	rows, total, err := s.tasks.ListTasks(ctx, filter, page.repoPage())
	if err != nil {
		return empty, storageError("list tasks", "Task", err)
	}
	return Paginated[repo.TaskRow]{Items: rows, Pagination: page, Total: total}, nil
}

// checkAssignee accepts only existing users who are members of the project.
func (s *TaskService) checkAssignee(ctx context.Context, projectID uuid.UUID, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := s.users.GetUserByID(ctx, *assigneeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("Assigned user")
		}
		return storageError("check assignee", "User", err)
	}
	m, err := membership(ctx, s.projects, projectID, *assigneeID)
	if err != nil {
		return err
	}
	if m == nil {
		return NewValidationError("assigned_to_id", "Assigned user is not a project member")
	}
	return nil
}

type CreateTaskInput struct {
	ProjectID      uuid.UUID
	Title          string
	Description    *string
	Status         string
	Priority       string
	AssigneeID     *uuid.UUID
	Position       int
	DueDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	Tags           []string
}

func (s *TaskService) Create(ctx context.Context, caller access.Caller, in CreateTaskInput) (*task.Task, error) {
	if in.ProjectID == uuid.Nil {
		return nil, NewValidationError("project_id", "project_id is required")
	}

	opts := []task.Option{
		task.WithDescription(in.Description),
		task.WithAssignee(in.AssigneeID),
		task.WithPosition(in.Position),
		task.WithDueDate(in.DueDate),
		task.WithEstimatedHours(in.EstimatedHours),
		task.WithActualHours(in.ActualHours),
		task.WithTags(in.Tags),
	}
	if in.Status != "" {
		st, err := task.ParseStatus(in.Status)
		if err != nil {
			return nil, invalid(err)
		}
		opts = append(opts, task.WithStatus(st))
	}
	if in.Priority != "" {
		pr, err := task.ParsePriority(in.Priority)
		if err != nil {
			return nil, invalid(err)
		}
		opts = append(opts, task.WithPriority(pr))
	}

	t, err := task.New(in.ProjectID, caller.UserID, in.Title, time.Now().UTC(), opts...)
	if err != nil {
		return nil, invalid(err)
	}

	p, err := s.projects.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, storageError("create task", "Project", err)
	}
	if _, err := authorize(ctx, s.projects, caller, access.CreateTask, p.ID, p.OwnerID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, p.ID, t.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, storageError("create task", "Task", err)
	}

	logger.Info("Service: task created",
		zap.String("task_id", t.ID.String()),
		zap.String("project_id", p.ID.String()))
	return t, nil
}

type TaskDetail struct {
	Task        *task.Task
	Comments    []*task.Comment
	Attachments []*task.Attachment
}

// resolve loads the task and checks action against its project. The task
// reporter is passed as resource owner.
func (s *TaskService) resolve(ctx context.Context, caller access.Caller, id uuid.UUID, action access.Action) (*task.Task, error) {
	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, storageError("get task", "Task", err)
	}
	if _, err := authorize(ctx, s.projects, caller, action, t.ProjectID, t.ReporterID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, caller access.Caller, id uuid.UUID) (*TaskDetail, error) {
	t, err := s.resolve(ctx, caller, id, access.ViewTask)
	if err != nil {
		return nil, err
	}

	comments, err := s.tasks.ListComments(ctx, t.ID)
	if err != nil {
		return nil, storageError("list comments", "Comment", err)
	}
	attachments, err := s.tasks.ListAttachments(ctx, t.ID)
	if err != nil {
		return nil, storageError("list attachments", "Attachment", err)
	}
	return &TaskDetail{Task: t, Comments: comments, Attachments: attachments}, nil
}

type UpdateTaskInput struct {
	Title          optional.Value[string]
	Description    optional.Value[string]
	Status         optional.Value[string]
	Priority       optional.Value[string]
	AssigneeID     optional.Value[uuid.UUID]
	Position       optional.Value[int]
	DueDate        optional.Value[time.Time]
	EstimatedHours optional.Value[float64]
	ActualHours    optional.Value[float64]
	Tags           optional.Value[[]string]
}

func (in UpdateTaskInput) options() ([]task.Option, error) {
	switch {
	case in.Title.Null:
		return nil, notNull("title")
	case in.Status.Null:
		return nil, notNull("status")
	case in.Priority.Null:
		return nil, notNull("priority")
	case in.Position.Null:
		return nil, notNull("position")
	}

	var opts []task.Option
	if in.Title.Set {
		opts = append(opts, task.WithTitle(in.Title.Value))
	}
	if in.Description.Set {
		opts = append(opts, task.WithDescription(in.Description.Ptr()))
	}
	if in.Status.Set {
		st, err := task.ParseStatus(in.Status.Value)
		if err != nil {
			return nil, invalid(err)
		}
		opts = append(opts, task.WithStatus(st))
	}
	if in.Priority.Set {
		pr, err := task.ParsePriority(in.Priority.Value)
		if err != nil {
			return nil, invalid(err)
		}
		opts = append(opts, task.WithPriority(pr))
	}
	if in.AssigneeID.Set {
		opts = append(opts, task.WithAssignee(in.AssigneeID.Ptr()))
	}
	if in.Position.Set {
		opts = append(opts, task.WithPosition(in.Position.Value))
	}
	if in.DueDate.Set {
		opts = append(opts, task.WithDueDate(in.DueDate.Ptr()))
	}
	if in.EstimatedHours.Set {
		opts = append(opts, task.WithEstimatedHours(in.EstimatedHours.Ptr()))
	}
	if in.ActualHours.Set {
		opts = append(opts, task.WithActualHours(in.ActualHours.Ptr()))
	}
	if in.Tags.Set {
		opts = append(opts, task.WithTags(in.Tags.Value))
	}
	return opts, nil
}

// Update is allowed to the reporter, project MANAGER/ADMIN and global admins.
// Moving into DONE stamps completed_at.
func (s *TaskService) Update(ctx context.Context, caller access.Caller, id uuid.UUID, in UpdateTaskInput) (*task.Task, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}

	t, err := s.resolve(ctx, caller, id, access.ModifyTask)
	if err != nil {
		return nil, err
	}

	if in.AssigneeID.Set && !in.AssigneeID.Null {
		if err := s.checkAssignee(ctx, t.ProjectID, &in.AssigneeID.Value); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := t.Apply(now, opts...); err != nil {
		return nil, invalid(err)
	}
	t.UpdatedAt = now

	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		return nil, storageError("update task", "Task", err)
	}
	return t, nil
}

// Delete removes the task with its comments and attachments.
func (s *TaskService) Delete(ctx context.Context, caller access.Caller, id uuid.UUID) error {
	t, err := s.resolve(ctx, caller, id, access.ModifyTask)
	if err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, t.ID); err != nil {
		return storageError("delete task", "Task", err)
	}
	logger.Info("Service: task deleted", zap.String("task_id", t.ID.String()))
	return nil
}

type CommentInput struct {
	Content  string
	ParentID *uuid.UUID
}

// AddComment is open to every project member. A parent must belong to the
// same task.
func (s *TaskService) AddComment(ctx context.Context, caller access.Caller, taskID uuid.UUID, in CommentInput) (*task.Comment, error) {
	c, err := task.NewComment(taskID, caller.UserID, in.ParentID, in.Content, time.Now().UTC())
	if err != nil {
		return nil, invalid(err)
	}

	t, err := s.resolve(ctx, caller, taskID, access.CommentTask)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.tasks.GetComment(ctx, *in.ParentID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, storageError("add comment", "Comment", err)
		}
		if parent == nil || parent.TaskID != t.ID {
			return nil, NewValidationError("parent_id", "Parent comment not found or belongs to different task")
		}
	}

	if err := s.tasks.CreateComment(ctx, c); err != nil {
		return nil, storageError("add comment", "Comment", err)
	}
	c.AuthorName = caller.FullName
	return c, nil
}

// ListComments returns the comment tree of a task.
func (s *TaskService) ListComments(ctx context.Context, caller access.Caller, taskID uuid.UUID) ([]*task.Thread, error) {
	t, err := s.resolve(ctx, caller, taskID, access.ViewTask)
	if err != nil {
		return nil, err
	}
	comments, err := s.tasks.ListComments(ctx, t.ID)
	if err != nil {
		return nil, storageError("list comments", "Comment", err)
	}
	return task.BuildThreads(comments), nil
}

func (s *TaskService) resolveComment(ctx context.Context, caller access.Caller, taskID, commentID uuid.UUID) (*task.Comment, error) {
	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, storageError("get task", "Task", err)
	}
	c, err := s.tasks.GetComment(ctx, commentID)
	if err != nil {
		return nil, storageError("get comment", "Comment", err)
	}
	if c.TaskID != t.ID {
		return nil, NewNotFound("Comment")
	}
	if _, err := authorize(ctx, s.projects, caller, access.ModifyComment, t.ProjectID, c.UserID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TaskService) UpdateComment(ctx context.Context, caller access.Caller, taskID, commentID uuid.UUID, content string) (*task.Comment, error) {
	c, err := s.resolveComment(ctx, caller, taskID, commentID)
	if err != nil {
		return nil, err
	}
	if err := c.Edit(content, time.Now().UTC()); err != nil {
		return nil, invalid(err)
	}
	if err := s.tasks.UpdateComment(ctx, c); err != nil {
		return nil, storageError("update comment", "Comment", err)
	}
	return c, nil
}

// DeleteComment removes the comment and its replies.
func (s *TaskService) DeleteComment(ctx context.Context, caller access.Caller, taskID, commentID uuid.UUID) error {
	c, err := s.resolveComment(ctx, caller, taskID, commentID)
	if err != nil {
		return err
	}
	if err := s.tasks.DeleteComment(ctx, c.ID); err != nil {
		return storageError("delete comment", "Comment", err)
	}
	return nil
}

// UploadAttachment checks access and reports that file storage is not
// available.
func (s *TaskService) UploadAttachment(ctx context.Context, caller access.Caller, taskID uuid.UUID) error {
	if _, err := s.resolve(ctx, caller, taskID, access.UploadAttachment); err != nil {
		return err
	}
	return NewBusinessError(CodeNotImplemented, "File upload not yet implemented")
}
