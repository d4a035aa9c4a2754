package dto

import (
	"taskManager/internal/models/optional"
	"taskManager/internal/models/project"
	"taskManager/internal/models/role"
	repo "taskManager/internal/repository"
	"taskManager/internal/service"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Color       string  `json:"color" validate:"omitempty,hexcolor,len=7"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r CreateProjectRequest) Input() (service.CreateProjectInput, error) {
	start, err := ParseDate("start_date", r.StartDate)
	if err != nil {
		return service.CreateProjectInput{}, err
	}
	end, err := ParseDate("end_date", r.EndDate)
	if err != nil {
		return service.CreateProjectInput{}, err
	}
	return service.CreateProjectInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Color:       r.Color,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

type UpdateProjectRequest struct {
	Name        optional.Value[string] `json:"name"`
	Description optional.Value[string] `json:"description"`
	Status      optional.Value[string] `json:"status"`
	Color       optional.Value[string] `json:"color"`
	StartDate   optional.Value[string] `json:"start_date"`
	EndDate     optional.Value[string] `json:"end_date"`
}

func (r UpdateProjectRequest) Input() (service.UpdateProjectInput, error) {
	start, err := ParseOptionalDate("start_date", r.StartDate)
	if err != nil {
		return service.UpdateProjectInput{}, err
	}
	end, err := ParseOptionalDate("end_date", r.EndDate)
	if err != nil {
		return service.UpdateProjectInput{}, err
	}
	return service.UpdateProjectInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Color:       r.Color,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role"`
}

func (r AddMemberRequest) Input() service.AddMemberInput {
	id, _ := uuid.Parse(r.UserID)
	return service.AddMemberInput{UserID: id, Role: r.Role}
}

// ProjectResponse overrides the project dates with calendar dates.
type ProjectResponse struct {
	*project.Project
	StartDate   *Date                `json:"start_date"`
	EndDate     *Date                `json:"end_date"`
	UserRole    *role.Role           `json:"user_role,omitempty"`
	MemberCount int                  `json:"member_count"`
	Members     []*project.Member    `json:"members,omitempty"`
	TaskSummary *project.TaskSummary `json:"task_summary,omitempty"`
}

func newProjectResponse(p *project.Project, r role.Role, memberCount int) ProjectResponse {
	resp := ProjectResponse{
		Project:     p,
		StartDate:   DateOf(p.StartDate),
		EndDate:     DateOf(p.EndDate),
		MemberCount: memberCount,
	}
	if r.Valid() {
		resp.UserRole = &r
	}
	return resp
}

func FromProjectRow(row repo.ProjectRow) ProjectResponse {
	return newProjectResponse(row.Project, row.UserRole, row.MemberCount)
}

func FromProjectRows(rows []repo.ProjectRow) []ProjectResponse {
	out := make([]ProjectResponse, len(rows))
	for i, row := range rows {
		out[i] = FromProjectRow(row)
	}
	return out
}

func FromProjectDetail(d *service.ProjectDetail) ProjectResponse {
	resp := newProjectResponse(d.Project, d.UserRole, len(d.Members))
	resp.Members = d.Members
	summary := d.TaskSummary
	resp.TaskSummary = &summary
	return resp
}
