// Package validate holds the error types shared by entity constructors
// and the strict parse functions of every closed enumeration.
package validate

import (
	"fmt"
	"strings"
)

// FieldError reports a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func Field(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// EnumError is returned when a value is outside of a closed set.
type EnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("Invalid %s. Must be one of: %s", e.Field, strings.Join(e.Allowed, ", "))
}

// Index finds raw in names ignoring case and surrounding spaces.
func Index(field, raw string, names []string) (int, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	for i, name := range names {
		if name == value {
			return i, nil
		}
	}
	return -1, &EnumError{Field: field, Value: raw, Allowed: names}
}

// Enum parses raw into one of allowed.
func Enum[T ~string](field, raw string, allowed ...T) (T, error) {
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}

	i, err := Index(field, raw, names)
	if err != nil {
		var zero T
		return zero, err
	}
	return allowed[i], nil
}
