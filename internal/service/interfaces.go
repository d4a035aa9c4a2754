package service

import (
	"context"
	"time"

	"taskManager/internal/auth"
	"taskManager/internal/models/project"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(context.Context, *user.User) error
	GetUserByID(context.Context, uuid.UUID) (*user.User, error)
	GetUserByEmail(context.Context, string) (*user.User, error)
	UpdateUser(context.Context, *user.User) error
	DeleteUser(context.Context, uuid.UUID) error
	ListUsers(context.Context, repo.UserFilter, repo.Page) ([]*user.User, int, error)
}

type ProjectRepository interface {
	// CreateProject stores the project and its owner membership atomically.
	CreateProject(context.Context, *project.Project, *project.Member) error
	GetProject(context.Context, uuid.UUID) (*project.Project, error)
	UpdateProject(context.Context, *project.Project) error
	DeleteProject(context.Context, uuid.UUID) error
	ListProjects(context.Context, repo.ProjectFilter, repo.Page) ([]repo.ProjectRow, int, error)
	TaskSummary(context.Context, uuid.UUID) (project.TaskSummary, error)

	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*project.Member, error)
	ListMembers(context.Context, uuid.UUID) ([]*project.Member, error)
	AddMember(context.Context, *project.Member) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type TaskRepository interface {
	CreateTask(context.Context, *task.Task) error
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	UpdateTask(context.Context, *task.Task) error
	DeleteTask(context.Context, uuid.UUID) error
	ListTasks(context.Context, repo.TaskFilter, repo.Page) ([]repo.TaskRow, int, error)

	CreateComment(context.Context, *task.Comment) error
	GetComment(context.Context, uuid.UUID) (*task.Comment, error)
	UpdateComment(context.Context, *task.Comment) error
	DeleteComment(context.Context, uuid.UUID) error
	ListComments(context.Context, uuid.UUID) ([]*task.Comment, error)

	ListAttachments(context.Context, uuid.UUID) ([]*task.Attachment, error)
}

type TokenIssuer interface {
	IssuePair(*user.User) (auth.Pair, error)
	IssueAccess(*user.User) (string, time.Time, error)
	Parse(string, auth.TokenType) (*auth.Claims, error)
	AccessTTL() time.Duration
}
