package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"taskManager/internal/access"
	"taskManager/internal/models/optional"
	"taskManager/internal/models/role"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/repository/inmemory"
	"taskManager/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ServiceSuite runs project and task services over the in-memory store
type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *inmemory.Store
	projects *service.ProjectService
	tasks    *service.TaskService
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = inmemory.New()
	s.projects = service.NewProjectService(s.store, s.store)
	s.tasks = service.NewTaskService(s.store, s.store, s.store)
}

func (s *ServiceSuite) newCaller(email string, r role.Role) access.Caller {
	u, err := user.New(email, "Secret123", "User "+email, r)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateUser(s.ctx, u))
	return access.Caller{UserID: u.ID, Email: u.Email, FullName: u.FullName, Role: r}
}

func (s *ServiceSuite) code(err error) string {
	var busErr *service.BusinessError
	s.Require().ErrorAs(err, &busErr)
	return busErr.Code
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestCreateProject() {
	owner := s.newCaller("owner@example.com", role.Member)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	s.Equal(role.Admin, d.UserRole)
	s.Require().Len(d.Members, 1)
	s.Equal(owner.UserID, d.Members[0].UserID)
	s.Equal("ACTIVE", string(d.Project.Status))

	_, err = s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo", Status: "paused"})
	s.Equal(service.CodeValidation, s.code(err))
}

// TestMembershipGate checks that a non member is refused until added
func (s *ServiceSuite) TestMembershipGate() {
	owner := s.newCaller("owner@example.com", role.Member)
	outsider := s.newCaller("outsider@example.com", role.Manager)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)

	_, err = s.projects.Get(s.ctx, outsider, d.Project.ID)
	s.Equal(service.CodeForbidden, s.code(err))

	_, err = s.projects.AddMember(s.ctx, owner, d.Project.ID, service.AddMemberInput{UserID: outsider.UserID, Role: "viewer"})
	s.Require().NoError(err)

	got, err := s.projects.Get(s.ctx, outsider, d.Project.ID)
	s.Require().NoError(err)
	s.Equal(role.Viewer, got.UserRole)
	s.Len(got.Members, 2)

	_, err = s.projects.AddMember(s.ctx, owner, d.Project.ID, service.AddMemberInput{UserID: outsider.UserID})
	s.Equal(service.CodeConflict, s.code(err))

	_, err = s.projects.AddMember(s.ctx, owner, d.Project.ID, service.AddMemberInput{UserID: uuid.New()})
	s.Equal(service.CodeNotFound, s.code(err))
}

func (s *ServiceSuite) TestUpdateProjectRoles() {
	owner := s.newCaller("owner@example.com", role.Member)
	member := s.newCaller("member@example.com", role.Member)
	manager := s.newCaller("manager@example.com", role.Member)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	id := d.Project.ID

	_, err = s.projects.AddMember(s.ctx, owner, id, service.AddMemberInput{UserID: member.UserID, Role: "MEMBER"})
	s.Require().NoError(err)
	_, err = s.projects.AddMember(s.ctx, owner, id, service.AddMemberInput{UserID: manager.UserID, Role: "MANAGER"})
	s.Require().NoError(err)

	_, err = s.projects.Update(s.ctx, member, id, service.UpdateProjectInput{Name: optional.Of("Hijacked")})
	s.Equal(service.CodeForbidden, s.code(err))

	updated, err := s.projects.Update(s.ctx, manager, id, service.UpdateProjectInput{Status: optional.Of("on_hold")})
	s.Require().NoError(err)
	s.Equal("ON_HOLD", string(updated.Project.Status))
	s.Equal("Apollo", updated.Project.Name)

	updated, err = s.projects.Update(s.ctx, owner, id, service.UpdateProjectInput{Name: optional.Of("Apollo 11")})
	s.Require().NoError(err)
	s.Equal("Apollo 11", updated.Project.Name)

	// a manager cannot hand out ADMIN
	viewer := s.newCaller("viewer@example.com", role.Member)
	_, err = s.projects.AddMember(s.ctx, manager, id, service.AddMemberInput{UserID: viewer.UserID, Role: "ADMIN"})
	s.Equal(service.CodeForbidden, s.code(err))

	_, err = s.projects.AddMember(s.ctx, member, id, service.AddMemberInput{UserID: viewer.UserID})
	s.Equal(service.CodeForbidden, s.code(err))
}

func (s *ServiceSuite) TestRemoveMember() {
	owner := s.newCaller("owner@example.com", role.Member)
	manager := s.newCaller("manager@example.com", role.Member)
	admin := s.newCaller("admin@example.com", role.Admin)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	id := d.Project.ID
	_, err = s.projects.AddMember(s.ctx, owner, id, service.AddMemberInput{UserID: manager.UserID, Role: "MANAGER"})
	s.Require().NoError(err)

	err = s.projects.RemoveMember(s.ctx, manager, id, owner.UserID)
	s.Equal(service.CodeForbidden, s.code(err))

	err = s.projects.RemoveMember(s.ctx, admin, id, owner.UserID)
	s.Require().Error(err)
	var busErr *service.BusinessError
	s.Require().ErrorAs(err, &busErr)
	s.Equal(service.CodeConflict, busErr.Code)
	s.Equal(service.ReasonOwnershipTransfer, busErr.Details["reason"])

	s.Require().NoError(s.projects.RemoveMember(s.ctx, owner, id, manager.UserID))
	err = s.projects.RemoveMember(s.ctx, owner, id, manager.UserID)
	s.Equal(service.CodeNotFound, s.code(err))
}

// TestDeleteProjectCascades checks that tasks disappear with their project
func (s *ServiceSuite) TestDeleteProjectCascades() {
	owner := s.newCaller("owner@example.com", role.Member)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	created, err := s.tasks.Create(s.ctx, owner, service.CreateTaskInput{ProjectID: d.Project.ID, Title: "Launch"})
	s.Require().NoError(err)

	s.Require().NoError(s.projects.Delete(s.ctx, owner, d.Project.ID))

	_, err = s.tasks.Get(s.ctx, owner, created.ID)
	s.Equal(service.CodeNotFound, s.code(err))
}

func (s *ServiceSuite) TestTaskPermissions() {
	owner := s.newCaller("owner@example.com", role.Member)
	reporter := s.newCaller("reporter@example.com", role.Viewer)
	other := s.newCaller("other@example.com", role.Member)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	id := d.Project.ID
	_, err = s.projects.AddMember(s.ctx, owner, id, service.AddMemberInput{UserID: reporter.UserID, Role: "VIEWER"})
	s.Require().NoError(err)
	_, err = s.projects.AddMember(s.ctx, owner, id, service.AddMemberInput{UserID: other.UserID, Role: "MEMBER"})
	s.Require().NoError(err)

	tk, err := s.tasks.Create(s.ctx, reporter, service.CreateTaskInput{ProjectID: id, Title: "Reported"})
	s.Require().NoError(err)

	// the reporter edits despite being a viewer
	_, err = s.tasks.Update(s.ctx, reporter, tk.ID, service.UpdateTaskInput{Priority: optional.Of("high")})
	s.Require().NoError(err)

	_, err = s.tasks.Update(s.ctx, other, tk.ID, service.UpdateTaskInput{Title: optional.Of("Stolen")})
	s.Equal(service.CodeForbidden, s.code(err))

	// the project admin can edit
	updated, err := s.tasks.Update(s.ctx, owner, tk.ID, service.UpdateTaskInput{AssigneeID: optional.Of(other.UserID)})
	s.Require().NoError(err)
	s.Equal(other.UserID, *updated.AssigneeID)

	stranger := s.newCaller("stranger@example.com", role.Member)
	_, err = s.tasks.Update(s.ctx, owner, tk.ID, service.UpdateTaskInput{AssigneeID: optional.Of(stranger.UserID)})
	s.Equal(service.CodeValidation, s.code(err))

	updated, err = s.tasks.Update(s.ctx, owner, tk.ID, service.UpdateTaskInput{AssigneeID: optional.Null[uuid.UUID]()})
	s.Require().NoError(err)
	s.Nil(updated.AssigneeID)

	err = s.tasks.Delete(s.ctx, other, tk.ID)
	s.Equal(service.CodeForbidden, s.code(err))
	s.Require().NoError(s.tasks.Delete(s.ctx, reporter, tk.ID))
}

// TestCompletedAtQuirk checks that leaving DONE keeps completed_at
func (s *ServiceSuite) TestCompletedAtQuirk() {
	owner := s.newCaller("owner@example.com", role.Member)
	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	tk, err := s.tasks.Create(s.ctx, owner, service.CreateTaskInput{ProjectID: d.Project.ID, Title: "Finish"})
	s.Require().NoError(err)
	s.Nil(tk.CompletedAt)

	done, err := s.tasks.Update(s.ctx, owner, tk.ID, service.UpdateTaskInput{Status: optional.Of("DONE")})
	s.Require().NoError(err)
	s.Require().NotNil(done.CompletedAt)
	stamp := *done.CompletedAt

	back, err := s.tasks.Update(s.ctx, owner, tk.ID, service.UpdateTaskInput{Status: optional.Of("TODO")})
	s.Require().NoError(err)
	s.Equal(task.StatusTodo, back.Status)
	s.Require().NotNil(back.CompletedAt)
	s.Equal(stamp, *back.CompletedAt)

	_, err = s.tasks.Update(s.ctx, owner, tk.ID, service.UpdateTaskInput{Status: optional.Of("BLOCKED")})
	s.Equal(service.CodeValidation, s.code(err))
}

// TestUpdateLimits checks updates are held to the same limits as creation
func (s *ServiceSuite) TestUpdateLimits() {
	owner := s.newCaller("owner@example.com", role.Member)
	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	tk, err := s.tasks.Create(s.ctx, owner, service.CreateTaskInput{ProjectID: d.Project.ID, Title: "Finish", Position: 3})
	s.Require().NoError(err)

	manyTags := make([]string, task.MaxTags+1)
	for i := range manyTags {
		manyTags[i] = fmt.Sprintf("tag%d", i)
	}

	taskUpdates := []struct {
		name  string
		in    service.UpdateTaskInput
		field string
	}{
		{"long title", service.UpdateTaskInput{Title: optional.Of(strings.Repeat("t", 600))}, "title"},
		{"estimated hours", service.UpdateTaskInput{EstimatedHours: optional.Of(123456.0)}, "estimated_hours"},
		{"actual hours", service.UpdateTaskInput{ActualHours: optional.Of(1000.0)}, "actual_hours"},
		{"too many tags", service.UpdateTaskInput{Tags: optional.Of(manyTags)}, "tags"},
		{"long tag", service.UpdateTaskInput{Tags: optional.Of([]string{strings.Repeat("x", 51)})}, "tags"},
		{"null title", service.UpdateTaskInput{Title: optional.Null[string]()}, "title"},
		{"null status", service.UpdateTaskInput{Status: optional.Null[string]()}, "status"},
		{"null priority", service.UpdateTaskInput{Priority: optional.Null[string]()}, "priority"},
		{"null position", service.UpdateTaskInput{Position: optional.Null[int]()}, "position"},
	}
	for _, tt := range taskUpdates {
		s.Run(tt.name, func() {
			_, err := s.tasks.Update(s.ctx, owner, tk.ID, tt.in)
			var busErr *service.BusinessError
			s.Require().ErrorAs(err, &busErr)
			s.Equal(service.CodeValidation, busErr.Code)
			s.Equal(tt.field, busErr.Details["field"])
		})
	}

	got, err := s.tasks.Get(s.ctx, owner, tk.ID)
	s.Require().NoError(err)
	s.Equal("Finish", got.Task.Title)
	s.Equal(3, got.Task.Position)
	s.Nil(got.Task.EstimatedHours)

	_, err = s.projects.Update(s.ctx, owner, d.Project.ID, service.UpdateProjectInput{Name: optional.Of(strings.Repeat("n", 300))})
	s.Equal(service.CodeValidation, s.code(err))
	_, err = s.projects.Update(s.ctx, owner, d.Project.ID, service.UpdateProjectInput{Name: optional.Null[string]()})
	s.Equal(service.CodeValidation, s.code(err))
}

func (s *ServiceSuite) TestListTasks() {
	owner := s.newCaller("owner@example.com", role.Member)
	admin := s.newCaller("admin@example.com", role.Admin)

	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	for _, title := range []string{"One task", "Two task", "Three task"} {
		_, err := s.tasks.Create(s.ctx, owner, service.CreateTaskInput{ProjectID: d.Project.ID, Title: title})
		s.Require().NoError(err)
	}

	_, err = s.tasks.List(s.ctx, owner, service.TaskFilterInput{}, service.NewPagination(1, 20))
	s.Equal(service.CodeValidation, s.code(err))

	page, err := s.tasks.List(s.ctx, owner, service.TaskFilterInput{ProjectID: &d.Project.ID}, service.NewPagination(1, 2))
	s.Require().NoError(err)
	s.Equal(3, page.Total)
	s.Len(page.Items, 2)
	s.True(page.HasNext())

	// an admin without project_id only sees projects they belong to
	page, err = s.tasks.List(s.ctx, admin, service.TaskFilterInput{}, service.NewPagination(1, 20))
	s.Require().NoError(err)
	s.Equal(0, page.Total)

	page, err = s.tasks.List(s.ctx, admin, service.TaskFilterInput{ProjectID: &d.Project.ID}, service.NewPagination(1, 20))
	s.Require().NoError(err)
	s.Equal(3, page.Total)
}

func (s *ServiceSuite) TestComments() {
	owner := s.newCaller("owner@example.com", role.Member)
	viewer := s.newCaller("viewer@example.com", role.Member)
	d, err := s.projects.Create(s.ctx, owner, service.CreateProjectInput{Name: "Apollo"})
	s.Require().NoError(err)
	_, err = s.projects.AddMember(s.ctx, owner, d.Project.ID, service.AddMemberInput{UserID: viewer.UserID, Role: "VIEWER"})
	s.Require().NoError(err)

	one, err := s.tasks.Create(s.ctx, owner, service.CreateTaskInput{ProjectID: d.Project.ID, Title: "First"})
	s.Require().NoError(err)
	two, err := s.tasks.Create(s.ctx, owner, service.CreateTaskInput{ProjectID: d.Project.ID, Title: "Second"})
	s.Require().NoError(err)

	root, err := s.tasks.AddComment(s.ctx, viewer, one.ID, service.CommentInput{Content: "question"})
	s.Require().NoError(err)
	s.Equal(viewer.FullName, root.AuthorName)

	_, err = s.tasks.AddComment(s.ctx, owner, one.ID, service.CommentInput{Content: "answer", ParentID: &root.ID})
	s.Require().NoError(err)

	_, err = s.tasks.AddComment(s.ctx, owner, two.ID, service.CommentInput{Content: "misplaced", ParentID: &root.ID})
	s.Equal(service.CodeValidation, s.code(err))

	_, err = s.tasks.AddComment(s.ctx, owner, one.ID, service.CommentInput{Content: "  "})
	s.Equal(service.CodeValidation, s.code(err))

	threads, err := s.tasks.ListComments(s.ctx, viewer, one.ID)
	s.Require().NoError(err)
	s.Require().Len(threads, 1)
	s.Len(threads[0].Replies, 1)

	edited, err := s.tasks.UpdateComment(s.ctx, viewer, one.ID, root.ID, "better question")
	s.Require().NoError(err)
	s.True(edited.IsEdited)

	err = s.tasks.DeleteComment(s.ctx, viewer, one.ID, threads[0].Replies[0].ID)
	s.Equal(service.CodeForbidden, s.code(err))

	s.Require().NoError(s.tasks.DeleteComment(s.ctx, owner, one.ID, root.ID))
	threads, err = s.tasks.ListComments(s.ctx, owner, one.ID)
	s.Require().NoError(err)
	s.Empty(threads)

	err = s.tasks.UploadAttachment(s.ctx, viewer, one.ID)
	s.Equal(service.CodeNotImplemented, s.code(err))
}

func TestStorageErrorIsInternal(t *testing.T) {
	err := service.NewInternal("op", assert.AnError)
	assert.ErrorIs(t, err, assert.AnError)
	require.Contains(t, err.Error(), "INTERNAL")
}
