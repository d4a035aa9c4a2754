package service

import (
	"errors"
	"fmt"

	"taskManager/internal/models/validate"
	repo "taskManager/internal/repository"
)

const (
	CodeValidation      = "VALIDATION"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeNotImplemented  = "NOT_IMPLEMENTED"
	CodeInternal        = "INTERNAL"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string) *BusinessError {
	return NewBusinessError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func NewValidationError(field, message string) *BusinessError {
	return NewBusinessError(CodeValidation, message, ToDetail("field", field))
}

func NewForbidden(message, reason string) *BusinessError {
	return NewBusinessError(CodeForbidden, message, ToDetail("reason", reason))
}

func NewUnauthenticated(message string) *BusinessError {
	return NewBusinessError(CodeUnauthenticated, message)
}

func NewConflict(message string) *BusinessError {
	return NewBusinessError(CodeConflict, message)
}

func NewInternal(op string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Details: map[string]any{"operation": op},
		Err:     err,
	}
}

// invalid turns model validation errors into VALIDATION business errors.
// Other errors are returned unchanged.
func invalid(err error) error {
	var fieldErr *validate.FieldError
	if errors.As(err, &fieldErr) {
		return NewValidationError(fieldErr.Field, fieldErr.Message)
	}
	var enumErr *validate.EnumError
	if errors.As(err, &enumErr) {
		return NewBusinessError(CodeValidation, enumErr.Error(),
			ToDetail("field", enumErr.Field),
			ToDetail("allowed", enumErr.Allowed))
	}
	return err
}

// storageError maps repository sentinels to business errors. resource names
// the entity for NOT_FOUND.
func storageError(op, resource string, err error) error {
	var busErr *BusinessError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &busErr):
		return busErr
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(resource)
	case errors.Is(err, repo.ErrConflict):
		return NewBusinessError(CodeConflict, fmt.Sprintf("%s already exists", resource))
	case errors.Is(err, repo.ErrReference):
		return NewBusinessError(CodeValidation, "Referenced record does not exist", ToDetail("constraint", "foreign_key"))
	case errors.Is(err, repo.ErrConstraint):
		return NewBusinessError(CodeValidation, "Value is missing or out of range", ToDetail("constraint", "value"))
	default:
		return NewInternal(op, err)
	}
}

// notNull rejects an explicit null for a field that cannot be cleared.
func notNull(field string) error {
	return NewValidationError(field, fmt.Sprintf("%s cannot be null", field))
}
