package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"taskManager/internal/logger"

	"go.uber.org/zap"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("HTTP: panic recovered", fmt.Errorf("%v", rec),
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.ByteString("stack", debug.Stack()))

			writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
		}()

		next.ServeHTTP(w, r)
	})
}
