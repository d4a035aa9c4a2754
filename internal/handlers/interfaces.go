package handlers

import (
	"context"

	"taskManager/internal/access"
	"taskManager/internal/models/project"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"taskManager/internal/service"

	"github.com/google/uuid"
)

type UserService interface {
	Register(context.Context, service.RegisterInput) (*user.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.RefreshResult, error)
	Me(context.Context, access.Caller) (*user.User, error)
	ListUsers(context.Context, access.Caller, service.UserFilterInput, service.Pagination) (service.Paginated[*user.User], error)
	GetUser(context.Context, access.Caller, uuid.UUID) (*user.User, error)
	UpdateUser(context.Context, access.Caller, uuid.UUID, service.UpdateUserInput) (*user.User, error)
	DeleteUser(ctx context.Context, caller access.Caller, id uuid.UUID, hard bool) error
}

type ProjectService interface {
	List(context.Context, access.Caller, service.ProjectFilterInput, service.Pagination) (service.Paginated[repo.ProjectRow], error)
	Create(context.Context, access.Caller, service.CreateProjectInput) (*service.ProjectDetail, error)
	Get(context.Context, access.Caller, uuid.UUID) (*service.ProjectDetail, error)
	Update(context.Context, access.Caller, uuid.UUID, service.UpdateProjectInput) (*service.ProjectDetail, error)
	Delete(context.Context, access.Caller, uuid.UUID) error
	AddMember(context.Context, access.Caller, uuid.UUID, service.AddMemberInput) (*project.Member, error)
	RemoveMember(ctx context.Context, caller access.Caller, projectID, userID uuid.UUID) error
}

type TaskService interface {
	List(context.Context, access.Caller, service.TaskFilterInput, service.Pagination) (service.Paginated[repo.TaskRow], error)
	Create(context.Context, access.Caller, service.CreateTaskInput) (*task.Task, error)
	Get(context.Context, access.Caller, uuid.UUID) (*service.TaskDetail, error)
	Update(context.Context, access.Caller, uuid.UUID, service.UpdateTaskInput) (*task.Task, error)
	Delete(context.Context, access.Caller, uuid.UUID) error

	AddComment(context.Context, access.Caller, uuid.UUID, service.CommentInput) (*task.Comment, error)
	ListComments(context.Context, access.Caller, uuid.UUID) ([]*task.Thread, error)
	UpdateComment(ctx context.Context, caller access.Caller, taskID, commentID uuid.UUID, content string) (*task.Comment, error)
	DeleteComment(ctx context.Context, caller access.Caller, taskID, commentID uuid.UUID) error
	UploadAttachment(context.Context, access.Caller, uuid.UUID) error
}

type HealthChecker interface {
	HealthCheck(context.Context) error
}
