package handlers

import (
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

type ProjectHandler struct {
	responder
	projects ProjectService
}

func NewProjectHandler(projects ProjectService, debug bool) *ProjectHandler {
	return &ProjectHandler{responder: responder{debug: debug}, projects: projects}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	page, err := h.projects.List(r.Context(), caller, service.ProjectFilterInput{
		Status: q.Get("status"),
		Role:   q.Get("role"),
		Search: q.Get("search"),
	}, paginationFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondList(w, page, dto.FromProjectRows(page.Items))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.CreateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.projects.Create(r.Context(), caller, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: project created", zap.String("project_id", d.Project.ID.String()))
	respond(w, http.StatusCreated, "Project created successfully", dto.FromProjectDetail(d))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.projects.Get(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", dto.FromProjectDetail(d))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.projects.Update(r.Context(), caller, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Project updated successfully", dto.FromProjectDetail(d))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.projects.Delete(r.Context(), caller, id); err != nil {
		h.fail(w, r, err)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: project deleted", zap.String("project_id", id.String()))
	respond(w, http.StatusOK, "Project deleted successfully", nil)
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	var req dto.AddMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.projects.AddMember(r.Context(), caller, id, req.Input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "Member added successfully", m)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
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
	userID, err := uuidParam(r, "userId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.projects.RemoveMember(r.Context(), caller, id, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Member removed successfully", nil)
}
