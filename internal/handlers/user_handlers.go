package handlers

import (
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/service"
)

type UserHandler struct {
	responder
	users UserService
}

func NewUserHandler(users UserService, debug bool) *UserHandler {
	return &UserHandler{responder: responder{debug: debug}, users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	active, err := boolQuery(r, "is_active")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	page, err := h.users.ListUsers(r.Context(), caller, service.UserFilterInput{
		Role:     q.Get("role"),
		IsActive: active,
		Search:   q.Get("search"),
	}, paginationFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondList(w, page, page.Items)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	u, err := h.users.GetUser(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.UpdateUser(r.Context(), caller, id, service.UpdateUserInput{
		FullName:        req.FullName,
		Email:           req.Email,
		AvatarURL:       req.AvatarURL,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Role:            req.Role,
		IsActive:        req.IsActive,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "User updated successfully", u)
}

// Delete deactivates the account; ?hard=true removes it with everything
// it owns.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	hard, err := boolQuery(r, "hard")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	purge := hard != nil && *hard
	if err := h.users.DeleteUser(r.Context(), caller, id, purge); err != nil {
		h.fail(w, r, err)
		return
	}

	message := "User deactivated successfully"
	if purge {
		message = "User deleted successfully"
	}
	respond(w, http.StatusOK, message, nil)
}
