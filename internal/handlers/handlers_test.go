package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskManager/internal/access"
	"taskManager/internal/handlers"
	"taskManager/internal/models/role"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, c access.Caller, in service.TaskFilterInput, p service.Pagination) (service.Paginated[repo.TaskRow], error) {
	args := m.Called(ctx, c, in, p)
	return args.Get(0).(service.Paginated[repo.TaskRow]), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, c access.Caller, in service.CreateTaskInput) (*task.Task, error) {
	args := m.Called(ctx, c, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, c access.Caller, id uuid.UUID) (*service.TaskDetail, error) {
	args := m.Called(ctx, c, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskDetail), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, c access.Caller, id uuid.UUID, in service.UpdateTaskInput) (*task.Task, error) {
	args := m.Called(ctx, c, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, c access.Caller, id uuid.UUID) error {
	return m.Called(ctx, c, id).Error(0)
}

func (m *MockTaskService) AddComment(ctx context.Context, c access.Caller, taskID uuid.UUID, in service.CommentInput) (*task.Comment, error) {
	args := m.Called(ctx, c, taskID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Comment), args.Error(1)
}

func (m *MockTaskService) ListComments(ctx context.Context, c access.Caller, taskID uuid.UUID) ([]*task.Thread, error) {
	args := m.Called(ctx, c, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Thread), args.Error(1)
}

func (m *MockTaskService) UpdateComment(ctx context.Context, c access.Caller, taskID, commentID uuid.UUID, content string) (*task.Comment, error) {
	args := m.Called(ctx, c, taskID, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Comment), args.Error(1)
}

func (m *MockTaskService) DeleteComment(ctx context.Context, c access.Caller, taskID, commentID uuid.UUID) error {
	return m.Called(ctx, c, taskID, commentID).Error(0)
}

func (m *MockTaskService) UploadAttachment(ctx context.Context, c access.Caller, taskID uuid.UUID) error {
	return m.Called(ctx, c, taskID).Error(0)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ handlers.HealthChecker = (*MockHealthChecker)(nil)

var testCaller = access.Caller{
	UserID:   uuid.New(),
	Email:    "dev@example.com",
	FullName: "Dev",
	Role:     role.Member,
}

// taskRouter mounts h the way the app does, with testCaller already
// authenticated.
func taskRouter(h *handlers.TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithCaller(r.Context(), testCaller)))
		})
	})
	r.Get("/tasks", h.List)
	r.Post("/tasks", h.Create)
	r.Get("/tasks/{id}", h.Get)
	r.Put("/tasks/{id}", h.Update)
	r.Delete("/tasks/{id}", h.Delete)
	r.Post("/tasks/{id}/comments", h.AddComment)
	r.Post("/tasks/{id}/attachments", h.UploadAttachment)
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockHealthChecker)
		expectedStatus int
		expectedState  string
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockHealthChecker) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockHealthChecker) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockHealthChecker)
			tt.setupMock(checker)

			w := httptest.NewRecorder()
			handlers.NewHealthHandler(checker).HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.expectedState, body["status"])
			assert.Equal(t, "task-manager", body["service"])
			checker.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_Create(t *testing.T) {
	projectID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "success - create task",
			requestBody: `{"project_id":"` + projectID.String() + `","title":"Write docs","priority":"HIGH","due_date":"2030-01-15","tags":["docs"]}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("Create", mock.Anything, testCaller, mock.MatchedBy(func(in service.CreateTaskInput) bool {
					return in.ProjectID == projectID && in.Title == "Write docs" && in.Priority == "HIGH" &&
						in.DueDate != nil && in.DueDate.Equal(time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC))
				})).Return(&task.Task{
					ID:        taskID,
					Title:     "Write docs",
					ProjectID: projectID,
					Status:    task.StatusTodo,
					Priority:  task.PriorityHigh,
					Tags:      []string{"docs"},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidation,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidation,
		},
		{
			name:           "error - missing title",
			requestBody:    `{"project_id":"` + projectID.String() + `"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidation,
		},
		{
			name:           "error - bad due date",
			requestBody:    `{"project_id":"` + projectID.String() + `","title":"x","due_date":"15/01/2030"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidation,
		},
		{
			name:           "error - too many hours",
			requestBody:    `{"project_id":"` + projectID.String() + `","title":"x","estimated_hours":1000}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidation,
		},
		{
			name:        "error - not a member",
			requestBody: `{"project_id":"` + projectID.String() + `","title":"x"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("Create", mock.Anything, testCaller, mock.Anything).
					Return(nil, service.NewForbidden("Access denied", "NOT_A_MEMBER"))
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   service.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			if tt.expectedCode == "" {
				assert.Equal(t, true, body["success"])
				data := body["data"].(map[string]any)
				assert.Equal(t, taskID.String(), data["id"])
				assert.Equal(t, "2030-01-15", data["due_date"])
			} else {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.expectedCode, body["code"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_Get(t *testing.T) {
	taskID := uuid.New()

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockTaskService)
		w := httptest.NewRecorder()
		taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Get", mock.Anything, testCaller, taskID).Return(nil, service.NewNotFound("Task"))

		w := httptest.NewRecorder()
		taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/"+taskID.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Task not found", body["error"])
		assert.Equal(t, service.CodeNotFound, body["code"])
	})

	t.Run("with comments", func(t *testing.T) {
		svc := new(MockTaskService)
		comment := &task.Comment{ID: uuid.New(), TaskID: taskID, UserID: testCaller.UserID, Content: "hi"}
		svc.On("Get", mock.Anything, testCaller, taskID).Return(&service.TaskDetail{
			Task:        &task.Task{ID: taskID, Title: "t", Status: task.StatusTodo, Priority: task.PriorityMedium, Tags: []string{}},
			Comments:    []*task.Comment{comment},
			Attachments: []*task.Attachment{},
		}, nil)

		w := httptest.NewRecorder()
		taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/"+taskID.String(), nil))

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, taskID.String(), data["id"])
		assert.Len(t, data["comments"], 1)
		assert.EqualValues(t, 1, data["comment_count"])
	})
}

func TestTaskHandler_List(t *testing.T) {
	projectID := uuid.New()

	t.Run("filters and clamped pagination", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("List", mock.Anything, testCaller, mock.MatchedBy(func(in service.TaskFilterInput) bool {
			return in.ProjectID != nil && *in.ProjectID == projectID && in.Status == "TODO" && in.DueBefore != nil
		}), service.Pagination{Page: 2, PerPage: service.MaxPerPage}).Return(service.Paginated[repo.TaskRow]{
			Items:      []repo.TaskRow{},
			Pagination: service.Pagination{Page: 2, PerPage: service.MaxPerPage},
			Total:      150,
		}, nil)

		url := "/tasks?project_id=" + projectID.String() + "&status=TODO&due_before=2030-01-01&page=2&per_page=150"
		w := httptest.NewRecorder()
		taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

		require.Equal(t, http.StatusOK, w.Code)
		pagination := decodeBody(t, w)["pagination"].(map[string]any)
		assert.EqualValues(t, 100, pagination["per_page"])
		assert.EqualValues(t, 2, pagination["pages"])
		assert.Equal(t, false, pagination["has_next"])
		assert.Equal(t, true, pagination["has_prev"])
		svc.AssertExpectations(t)
	})

	t.Run("bad date filter", func(t *testing.T) {
		svc := new(MockTaskService)
		w := httptest.NewRecorder()
		taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks?due_after=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["error"], "YYYY-MM-DD")
	})
}

func TestTaskHandler_InternalErrors(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name        string
		debug       bool
		wantDetails bool
	}{
		{name: "details hidden", debug: false, wantDetails: false},
		{name: "details shown in debug", debug: true, wantDetails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			svc.On("Delete", mock.Anything, testCaller, taskID).Return(errors.New("connection reset"))

			w := httptest.NewRecorder()
			taskRouter(handlers.NewTaskHandler(svc, tt.debug)).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tasks/"+taskID.String(), nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, service.CodeInternal, body["code"])
			details, ok := body["details"]
			assert.Equal(t, tt.wantDetails, ok)
			if tt.wantDetails {
				assert.Contains(t, details, "connection reset")
			}
		})
	}
}

func TestTaskHandler_UploadAttachment(t *testing.T) {
	taskID := uuid.New()
	svc := new(MockTaskService)
	svc.On("UploadAttachment", mock.Anything, testCaller, taskID).
		Return(service.NewBusinessError(service.CodeNotImplemented, "File upload not yet implemented"))

	w := httptest.NewRecorder()
	taskRouter(handlers.NewTaskHandler(svc, false)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tasks/"+taskID.String()+"/attachments", nil))

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, service.CodeNotImplemented, decodeBody(t, w)["code"])
}

func TestTaskHandler_NoCaller(t *testing.T) {
	svc := new(MockTaskService)
	h := handlers.NewTaskHandler(svc, false)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, service.CodeUnauthenticated, decodeBody(t, w)["code"])
}
