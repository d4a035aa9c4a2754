package handlers

import (
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

type TaskHandler struct {
	responder
	tasks TaskService
}

func NewTaskHandler(tasks TaskService, debug bool) *TaskHandler {
	return &TaskHandler{responder: responder{debug: debug}, tasks: tasks}
}

func (h *TaskHandler) filterFrom(r *http.Request) (service.TaskFilterInput, error) {
	q := r.URL.Query()
	in := service.TaskFilterInput{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	}

	var err error
	if in.ProjectID, err = uuidQuery(r, "project_id"); err != nil {
		return in, err
	}
	if in.AssignedTo, err = uuidQuery(r, "assigned_to"); err != nil {
		return in, err
	}
	if in.CreatedBy, err = uuidQuery(r, "created_by"); err != nil {
		return in, err
	}
	if in.DueBefore, err = dateQuery(r, "due_before"); err != nil {
		return in, err
	}
	if in.DueAfter, err = dateQuery(r, "due_after"); err != nil {
		return in, err
	}
	return in, nil
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filter, err := h.filterFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.tasks.List(r.Context(), caller, filter, paginationFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondList(w, page, dto.FromTaskRows(page.Items))
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.tasks.Create(r.Context(), caller, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: task created", zap.String("task_id", t.ID.String()))
	respond(w, http.StatusCreated, "Task created successfully", dto.FromTask(t))
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.tasks.Get(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", dto.FromTaskDetail(d))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.tasks.Update(r.Context(), caller, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Task updated successfully", dto.FromTask(t))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), caller, id); err != nil {
		h.fail(w, r, err)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: task deleted", zap.String("task_id", id.String()))
	respond(w, http.StatusOK, "Task deleted successfully", nil)
}

func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	threads, err := h.tasks.ListComments(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", threads)
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.tasks.AddComment(r.Context(), caller, id, service.CommentInput{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "Comment added successfully", c)
}

func (h *TaskHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	commentID, err := uuidParam(r, "commentId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.EditCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.tasks.UpdateComment(r.Context(), caller, id, commentID, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Comment updated successfully", c)
}

func (h *TaskHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	commentID, err := uuidParam(r, "commentId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.tasks.DeleteComment(r.Context(), caller, id, commentID); err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Comment deleted successfully", nil)
}

// UploadAttachment always ends in NOT_IMPLEMENTED once access is checked.
func (h *TaskHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.tasks.UploadAttachment(r.Context(), caller, id); err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "", nil)
}
