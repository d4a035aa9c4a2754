package task

import (
	"time"

	"taskManager/internal/models/validate"

	"github.com/google/uuid"
)

type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Status         Status     `json:"status"`
	Priority       Priority   `json:"priority"`
	ProjectID      uuid.UUID  `json:"project_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	ReporterID     uuid.UUID  `json:"reporter_id"`
	Position       int        `json:"position"`
	DueDate        *time.Time `json:"due_date"`
	CompletedAt    *time.Time `json:"completed_at"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	Tags           []string   `json:"tags"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Status string
type Priority string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
	StatusArchived   Status = "ARCHIVED"
)

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func ParseStatus(raw string) (Status, error) {
	return validate.Enum("status", raw,
		StatusTodo, StatusInProgress, StatusInReview, StatusDone, StatusArchived)
}

func ParsePriority(raw string) (Priority, error) {
	return validate.Enum("priority", raw,
		PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent)
}

func New(projectID, reporterID uuid.UUID, title string, now time.Time, opts ...Option) (*Task, error) {
	t := &Task{
		ID:         uuid.New(),
		Status:     StatusTodo,
		Priority:   PriorityMedium,
		ProjectID:  projectID,
		ReporterID: reporterID,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	opts = append([]Option{WithTitle(title)}, opts...)
	if err := t.Apply(now, opts...); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply runs opts against a copy of t and keeps the result only when all of
// them succeed. Entering DONE stamps CompletedAt with now.
func (t *Task) Apply(now time.Time, opts ...Option) error {
	next := *t
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&next); err != nil {
			return err
		}
	}

	if next.Status == StatusDone && (t.Status != StatusDone || t.CompletedAt == nil) {
		stamp := now
		next.CompletedAt = &stamp
	}
	// TODO: leaving DONE keeps the old CompletedAt; clear it once clients stop
	// relying on the last completion time.

	*t = next
	return nil
}
