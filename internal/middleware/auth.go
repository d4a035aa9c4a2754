package middleware

import (
	"errors"
	"net/http"
	"strings"

	"taskManager/internal/access"
	"taskManager/internal/auth"
	"taskManager/internal/logger"
	"taskManager/internal/models/role"

	"go.uber.org/zap"
)

type TokenParser interface {
	Parse(string, auth.TokenType) (*auth.Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate requires a valid access token and stores the caller it
// describes in the request context.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization token is required", nil)
				return
			}

			claims, err := tokens.Parse(raw, auth.TokenAccess)
			if err != nil {
				message := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					message = "Token has expired"
				}
				logger.Debug("HTTP: token rejected",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", message, nil)
				return
			}

			caller, err := callerFromClaims(claims)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(access.WithCaller(r.Context(), caller)))
		})
	}
}

func callerFromClaims(claims *auth.Claims) (access.Caller, error) {
	id, err := claims.UserID()
	if err != nil {
		return access.Caller{}, err
	}
	r, err := role.Parse(claims.Role)
	if err != nil {
		return access.Caller{}, err
	}

	c := access.Caller{
		UserID:   id,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     r,
	}
	if claims.ExpiresAt != nil {
		c.ExpiresAt = claims.ExpiresAt.Time
	}
	return c, nil
}
