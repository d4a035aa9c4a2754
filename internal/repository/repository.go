// Package repository holds what both storage backends share: sentinel
// errors, list filters and list rows.
package repository

import (
	"errors"
	"time"

	"taskManager/internal/models/project"
	"taskManager/internal/models/role"
	"taskManager/internal/models/task"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is a unique constraint violation.
	ErrConflict = errors.New("record already exists")
	// ErrReference is a foreign key violation.
	ErrReference = errors.New("referenced record does not exist")
	// ErrConstraint covers not-null and check violations.
	ErrConstraint = errors.New("constraint violation")
)

type Page struct {
	Offset int
	Limit  int
}

type UserFilter struct {
	Role     *role.Role
	IsActive *bool
	Search   string
}

// ProjectFilter lists projects where MemberID has a membership.
type ProjectFilter struct {
	MemberID uuid.UUID
	Status   *project.Status
	Role     *role.Role
	Search   string
}

type ProjectRow struct {
	Project     *project.Project
	UserRole    role.Role
	MemberCount int
}

// TaskFilter selects tasks of ProjectID, or of every project MemberID
// belongs to when ProjectID is nil.
type TaskFilter struct {
	ProjectID  *uuid.UUID
	MemberID   uuid.UUID
	Status     *task.Status
	Priority   *task.Priority
	AssigneeID *uuid.UUID
	ReporterID *uuid.UUID
	Search     string
	DueBefore  *time.Time
	DueAfter   *time.Time
}

type TaskRow struct {
	Task            *task.Task
	CommentCount    int
	AttachmentCount int
}
