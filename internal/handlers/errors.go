package handlers

import (
	"errors"
	"net/http"

	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeRateLimited:
		return http.StatusTooManyRequests
	case service.CodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// responder renders errors. With debug on, INTERNAL responses carry the
// underlying error text.
type responder struct {
	debug bool
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var busErr *service.BusinessError
	if !errors.As(err, &busErr) {
		busErr = service.NewInternal("handler", err)
	}
	status := mapBusinessErrorToHTTP(busErr.Code)

	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("error_code", busErr.Code),
		zap.Int("http_status", status),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("HTTP: request failed", err, fields...)
	} else {
		logger.Warn("HTTP: business error", append(fields, zap.String("message", busErr.Message))...)
	}

	payload := []Payload{
		toPayload("success", false),
		toPayload("error", busErr.Message),
		toPayload("code", busErr.Code),
	}
	if busErr.Code == service.CodeInternal {
		if rs.debug && busErr.Err != nil {
			payload = append(payload, toPayload("details", busErr.Err.Error()))
		}
	} else {
		for key, value := range busErr.Details {
			payload = append(payload, toPayload(key, value))
		}
	}
	responseWithJSON(w, status, payload...)
}
