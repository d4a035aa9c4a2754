package handlers

import (
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	responder
	users UserService
}

func NewAuthHandler(users UserService, debug bool) *AuthHandler {
	return &AuthHandler{responder: responder{debug: debug}, users: users}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: user registered", zap.String("user_id", u.ID.String()))
	respond(w, http.StatusCreated, "User registered successfully", u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respond(w, http.StatusOK, "Login successful", dto.LoginResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		TokenType:    res.Tokens.TokenType,
		ExpiresIn:    res.Tokens.ExpiresIn,
		User:         res.User,
	})
}

// Refresh takes the refresh token as bearer credentials.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		h.fail(w, r, service.NewUnauthenticated("Refresh token is required"))
		return
	}

	res, err := h.users.Refresh(r.Context(), token)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respond(w, http.StatusOK, "", dto.RefreshResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   res.ExpiresIn,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.Me(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", u)
}

// Logout is client-side only: tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	logger.Info("HTTP: logout", zap.String("user_id", caller.UserID.String()))
	respond(w, http.StatusOK, "Logout successful", map[string]string{
		"note": "Please discard your tokens on the client side",
	})
}

func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	caller, err := callerOf(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.Me(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", dto.NewTokenInfo(u, caller.ExpiresAt))
}
