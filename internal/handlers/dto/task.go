package dto

import (
	"taskManager/internal/models/optional"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"taskManager/internal/service"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	ProjectID      string     `json:"project_id" validate:"required,uuid"`
	Title          string     `json:"title" validate:"required,max=500"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *uuid.UUID `json:"assigned_to_id"`
	Position       int        `json:"position" validate:"gte=0"`
	DueDate        *string    `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	EstimatedHours *float64   `json:"estimated_hours" validate:"omitempty,gte=0,lt=1000"`
	ActualHours    *float64   `json:"actual_hours" validate:"omitempty,gte=0,lt=1000"`
	Tags           []string   `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

func (r CreateTaskRequest) Input() (service.CreateTaskInput, error) {
	due, err := ParseDate("due_date", r.DueDate)
	if err != nil {
		return service.CreateTaskInput{}, err
	}
	projectID, _ := uuid.Parse(r.ProjectID)
	return service.CreateTaskInput{
		ProjectID:      projectID,
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		Priority:       r.Priority,
		AssigneeID:     r.AssigneeID,
		Position:       r.Position,
		DueDate:        due,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		Tags:           r.Tags,
	}, nil
}

type UpdateTaskRequest struct {
	Title          optional.Value[string]    `json:"title"`
	Description    optional.Value[string]    `json:"description"`
	Status         optional.Value[string]    `json:"status"`
	Priority       optional.Value[string]    `json:"priority"`
	AssigneeID     optional.Value[uuid.UUID] `json:"assigned_to_id"`
	Position       optional.Value[int]       `json:"position"`
	DueDate        optional.Value[string]    `json:"due_date"`
	EstimatedHours optional.Value[float64]   `json:"estimated_hours"`
	ActualHours    optional.Value[float64]   `json:"actual_hours"`
	Tags           optional.Value[[]string]  `json:"tags"`
}

func (r UpdateTaskRequest) Input() (service.UpdateTaskInput, error) {
	due, err := ParseOptionalDate("due_date", r.DueDate)
	if err != nil {
		return service.UpdateTaskInput{}, err
	}
	return service.UpdateTaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		Priority:       r.Priority,
		AssigneeID:     r.AssigneeID,
		Position:       r.Position,
		DueDate:        due,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		Tags:           r.Tags,
	}, nil
}

type CommentRequest struct {
	Content  string     `json:"content" validate:"required,max=10000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type EditCommentRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

type TaskResponse struct {
	*task.Task
	DueDate         *Date `json:"due_date"`
	CommentCount    int   `json:"comment_count"`
	AttachmentCount int   `json:"attachment_count"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{Task: t, DueDate: DateOf(t.DueDate)}
}

func FromTaskRows(rows []repo.TaskRow) []TaskResponse {
	out := make([]TaskResponse, len(rows))
	for i, row := range rows {
		out[i] = FromTask(row.Task)
		out[i].CommentCount = row.CommentCount
		out[i].AttachmentCount = row.AttachmentCount
	}
	return out
}

type TaskDetailResponse struct {
	TaskResponse
	Comments    []*task.Comment    `json:"comments"`
	Attachments []*task.Attachment `json:"attachments"`
}

func FromTaskDetail(d *service.TaskDetail) TaskDetailResponse {
	resp := TaskDetailResponse{
		TaskResponse: FromTask(d.Task),
		Comments:     d.Comments,
		Attachments:  d.Attachments,
	}
	resp.CommentCount = len(d.Comments)
	resp.AttachmentCount = len(d.Attachments)
	return resp
}
