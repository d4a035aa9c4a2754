package handlers

import (
	"encoding/json"
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	body := make(map[string]any, len(payload))
	for _, pl := range payload {
		body[pl.Key] = pl.Payload
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: failed to encode response", err)
	}
}

// respond writes the success envelope. An empty message is left out.
func respond(w http.ResponseWriter, code int, message string, data any) {
	payload := []Payload{toPayload("success", true)}
	if message != "" {
		payload = append(payload, toPayload("message", message))
	}
	if data != nil {
		payload = append(payload, toPayload("data", data))
	}
	responseWithJSON(w, code, payload...)
}

func respondList[T any](w http.ResponseWriter, page service.Paginated[T], data any) {
	responseWithJSON(w, http.StatusOK,
		toPayload("success", true),
		toPayload("data", data),
		toPayload("pagination", dto.Pagination{
			Page:    page.Page,
			PerPage: page.PerPage,
			Total:   page.Total,
			Pages:   page.Pages(),
			HasNext: page.HasNext(),
			HasPrev: page.HasPrev(),
		}),
	)
}
