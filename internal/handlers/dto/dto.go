// Package dto holds request payloads and response shapes of the HTTP API.
package dto

import (
	"fmt"
	"time"

	"taskManager/internal/models/optional"
	"taskManager/internal/service"
)

const DateLayout = "2006-01-02"

// Date renders a timestamp as a calendar date.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateLayout) + `"`), nil
}

func DateOf(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

// ParseDate reads a YYYY-MM-DD value. Nil and empty input give nil.
func ParseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *raw)
	if err != nil {
		return nil, service.NewValidationError(field, fmt.Sprintf("Invalid %s format. Use YYYY-MM-DD", field))
	}
	return &t, nil
}

// ParseOptionalDate keeps the absent/null distinction of v.
func ParseOptionalDate(field string, v optional.Value[string]) (optional.Value[time.Time], error) {
	if !v.Set {
		return optional.Value[time.Time]{}, nil
	}
	if v.Null || v.Value == "" {
		return optional.Null[time.Time](), nil
	}
	t, err := ParseDate(field, &v.Value)
	if err != nil {
		return optional.Value[time.Time]{}, err
	}
	return optional.Of(*t), nil
}

type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}
