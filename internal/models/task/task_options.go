package task

import (
	"fmt"
	"strings"
	"time"

	"taskManager/internal/models/validate"

	"github.com/google/uuid"
)

const (
	MaxTitleLength = 500
	MaxTags        = 20
	MaxTagLength   = 50
	// MaxHours is exclusive; hours are stored as NUMERIC(5,2).
	MaxHours = 1000
)

type Option func(*Task) error

func WithTitle(title string) Option {
	return func(t *Task) error {
		title = strings.TrimSpace(title)
		n := len([]rune(title))
		if n < 3 {
			return validate.Field("title", "Task title must be at least 3 characters")
		}
		if n > MaxTitleLength {
			return validate.Field("title", fmt.Sprintf("Task title must be at most %d characters", MaxTitleLength))
		}
		t.Title = title
		return nil
	}
}

// WithDescription clears the description for nil or blank input.
func WithDescription(d *string) Option {
	return func(t *Task) error {
		if d == nil || strings.TrimSpace(*d) == "" {
			t.Description = nil
			return nil
		}
		value := strings.TrimSpace(*d)
		t.Description = &value
		return nil
	}
}

func WithStatus(s Status) Option {
	return func(t *Task) error {
		t.Status = s
		return nil
	}
}

func WithPriority(p Priority) Option {
	return func(t *Task) error {
		t.Priority = p
		return nil
	}
}

func WithAssignee(id *uuid.UUID) Option {
	return func(t *Task) error {
		t.AssigneeID = id
		return nil
	}
}

func WithPosition(position int) Option {
	return func(t *Task) error {
		if position < 0 {
			return validate.Field("position", "Position must not be negative")
		}
		t.Position = position
		return nil
	}
}

func WithDueDate(d *time.Time) Option {
	return func(t *Task) error {
		t.DueDate = d
		return nil
	}
}

func WithEstimatedHours(h *float64) Option {
	return func(t *Task) error {
		if err := checkHours("estimated_hours", h); err != nil {
			return err
		}
		t.EstimatedHours = h
		return nil
	}
}

func WithActualHours(h *float64) Option {
	return func(t *Task) error {
		if err := checkHours("actual_hours", h); err != nil {
			return err
		}
		t.ActualHours = h
		return nil
	}
}

func checkHours(field string, h *float64) error {
	if h == nil {
		return nil
	}
	if *h < 0 {
		return validate.Field(field, fmt.Sprintf("%s must not be negative", field))
	}
	if *h >= MaxHours {
		return validate.Field(field, fmt.Sprintf("%s must be less than %d", field, MaxHours))
	}
	return nil
}

// WithTags drops blanks and duplicates, keeping first occurrences.
func WithTags(tags []string) Option {
	return func(t *Task) error {
		if len(tags) > MaxTags {
			return validate.Field("tags", fmt.Sprintf("tags must have at most %d items", MaxTags))
		}
		seen := make(map[string]struct{}, len(tags))
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if len([]rune(tag)) > MaxTagLength {
				return validate.Field("tags", fmt.Sprintf("Each tag must be at most %d characters", MaxTagLength))
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
		t.Tags = out
		return nil
	}
}
