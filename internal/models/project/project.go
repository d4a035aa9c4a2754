package project

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"taskManager/internal/models/role"
	"taskManager/internal/models/validate"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPlanning  Status = "PLANNING"
	StatusActive    Status = "ACTIVE"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
	StatusArchived  Status = "ARCHIVED"
)

const DefaultColor = "#3B82F6"

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func ParseStatus(raw string) (Status, error) {
	return validate.Enum("status", raw,
		StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusArchived)
}

type Project struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Color       string     `json:"color"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Member grants a user a role inside one project. Email and FullName are
// filled from the users table on reads.
type Member struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      role.Role `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
}

// IsOwnerAdmin reports whether removing m would orphan the project.
func (m *Member) IsOwnerAdmin(p *Project) bool {
	return m.Role == role.Admin && m.UserID == p.OwnerID
}

// TaskSummary counts tasks per status bucket.
type TaskSummary struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

func New(name string, ownerID uuid.UUID, opts ...Option) (*Project, error) {
	now := time.Now().UTC()
	p := &Project{
		ID:        uuid.New(),
		Status:    StatusActive,
		Color:     DefaultColor,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	opts = append([]Option{WithName(name)}, opts...)
	if err := p.Apply(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply runs opts in order and validates the result. p is left untouched on
// error.
func (p *Project) Apply(opts ...Option) error {
	next := *p
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&next); err != nil {
			return err
		}
	}

	if next.StartDate != nil && next.EndDate != nil && next.EndDate.Before(*next.StartDate) {
		return validate.Field("end_date", "End date must not be before start date")
	}

	*p = next
	return nil
}

const MaxNameLength = 255

type Option func(*Project) error

func WithName(name string) Option {
	return func(p *Project) error {
		name = strings.TrimSpace(name)
		n := len([]rune(name))
		if n < 3 {
			return validate.Field("name", "Project name must be at least 3 characters")
		}
		if n > MaxNameLength {
			return validate.Field("name", fmt.Sprintf("Project name must be at most %d characters", MaxNameLength))
		}
		p.Name = name
		return nil
	}
}

// WithDescription clears the description when d is nil or blank.
func WithDescription(d *string) Option {
	return func(p *Project) error {
		if d == nil || strings.TrimSpace(*d) == "" {
			p.Description = nil
			return nil
		}
		value := strings.TrimSpace(*d)
		p.Description = &value
		return nil
	}
}

func WithStatus(s Status) Option {
	return func(p *Project) error {
		p.Status = s
		return nil
	}
}

func WithColor(color string) Option {
	return func(p *Project) error {
		if !colorPattern.MatchString(color) {
			return validate.Field("color", "Color must be a hex value like #3B82F6")
		}
		p.Color = color
		return nil
	}
}

func WithStartDate(d *time.Time) Option {
	return func(p *Project) error {
		p.StartDate = d
		return nil
	}
}

func WithEndDate(d *time.Time) Option {
	return func(p *Project) error {
		p.EndDate = d
		return nil
	}
}
