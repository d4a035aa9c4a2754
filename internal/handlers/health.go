package handlers

import (
	"context"
	"net/http"
	"time"

	"taskManager/internal/logger"
)

const serviceName = "task-manager"

type HealthHandler struct {
	storage HealthChecker
}

func NewHealthHandler(storage HealthChecker) *HealthHandler {
	return &HealthHandler{storage: storage}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.HealthCheck(ctx); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unhealthy"),
			toPayload("service", serviceName),
			toPayload("time", time.Now().UTC()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "healthy"),
		toPayload("service", serviceName),
		toPayload("time", time.Now().UTC()),
	)
}
