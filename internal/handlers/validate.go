package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"taskManager/internal/access"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if !checkContentType(r, "application/json") {
		return service.NewBusinessError(service.CodeValidation, "Content-Type must be application/json")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return service.NewBusinessError(service.CodeValidation, "Request body is required")
		}
		return service.NewBusinessError(service.CodeValidation, "Invalid JSON body",
			service.ToDetail("reason", err.Error()))
	}

	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return service.NewBusinessError(service.CodeValidation, "Invalid request body")
	}
	fe := fieldErrs[0]
	return service.NewValidationError(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("Invalid %s format. Use YYYY-MM-DD", field)
	case "hexcolor", "len":
		return fmt.Sprintf("%s must be a hex color like #3B82F6", field)
	case "uuid":
		return fmt.Sprintf("Invalid %s", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func callerOf(r *http.Request) (access.Caller, error) {
	c, ok := access.CallerFrom(r.Context())
	if !ok {
		return access.Caller{}, service.NewUnauthenticated("Authorization token is required")
	}
	return c, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, service.NewValidationError(name, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

func uuidQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, service.NewValidationError(name, fmt.Sprintf("Invalid %s", name))
	}
	return &id, nil
}

func dateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	return dto.ParseDate(name, &raw)
}

func boolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, service.NewValidationError(name, fmt.Sprintf("%s must be true or false", name))
	}
	return &b, nil
}

// paginationFrom reads page and per_page. Bad or missing values fall back
// to the defaults.
func paginationFrom(r *http.Request) service.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return service.NewPagination(page, perPage)
}
