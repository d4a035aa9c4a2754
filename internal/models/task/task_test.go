package task_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"taskManager/internal/models/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T, opts ...task.Option) *task.Task {
	t.Helper()
	created, err := task.New(uuid.New(), uuid.New(), "Write docs", time.Now().UTC(), opts...)
	require.NoError(t, err)
	return created
}

// TestNew checks task defaults
func TestNew(t *testing.T) {
	created := newTask(t)

	assert.Equal(t, task.StatusTodo, created.Status)
	assert.Equal(t, task.PriorityMedium, created.Priority)
	assert.Nil(t, created.CompletedAt)
	assert.Empty(t, created.Tags)
}

func TestNew_ShortTitle(t *testing.T) {
	_, err := task.New(uuid.New(), uuid.New(), "ab", time.Now())
	assert.EqualError(t, err, "Task title must be at least 3 characters")
}

func TestNew_CreatedDone(t *testing.T) {
	created := newTask(t, task.WithStatus(task.StatusDone))
	assert.NotNil(t, created.CompletedAt)
}

// TestApply_CompletedAt covers stamping on DONE and the stale stamp after leaving it
func TestApply_CompletedAt(t *testing.T) {
	tk := newTask(t)

	doneAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, tk.Apply(doneAt, task.WithStatus(task.StatusDone)))
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, doneAt, *tk.CompletedAt)

	// repeating DONE keeps the first stamp
	require.NoError(t, tk.Apply(doneAt.Add(time.Hour), task.WithStatus(task.StatusDone)))
	assert.Equal(t, doneAt, *tk.CompletedAt)

	require.NoError(t, tk.Apply(doneAt.Add(2*time.Hour), task.WithStatus(task.StatusTodo)))
	assert.Equal(t, task.StatusTodo, tk.Status)
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, doneAt, *tk.CompletedAt)

	later := doneAt.Add(3 * time.Hour)
	require.NoError(t, tk.Apply(later, task.WithStatus(task.StatusDone)))
	assert.Equal(t, later, *tk.CompletedAt)
}

func TestApply_Atomic(t *testing.T) {
	tk := newTask(t)
	hours := -1.0

	err := tk.Apply(time.Now(), task.WithPriority(task.PriorityHigh), task.WithEstimatedHours(&hours))
	assert.Error(t, err)
	assert.Equal(t, task.PriorityMedium, tk.Priority)
	assert.Nil(t, tk.EstimatedHours)
}

func TestWithTags(t *testing.T) {
	tk := newTask(t, task.WithTags([]string{"api", " api", "", "docs", "api"}))
	assert.Equal(t, []string{"api", "docs"}, tk.Tags)
}

// TestOptionLimits checks the limits shared by create and update
func TestOptionLimits(t *testing.T) {
	tooMany := make([]string, task.MaxTags+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("tag%d", i)
	}
	big := float64(task.MaxHours)

	tests := []struct {
		name string
		opt  task.Option
		want string
	}{
		{"long title", task.WithTitle(strings.Repeat("a", task.MaxTitleLength+1)), "Task title must be at most 500 characters"},
		{"estimated hours", task.WithEstimatedHours(&big), "estimated_hours must be less than 1000"},
		{"actual hours", task.WithActualHours(&big), "actual_hours must be less than 1000"},
		{"too many tags", task.WithTags(tooMany), "tags must have at most 20 items"},
		{"long tag", task.WithTags([]string{strings.Repeat("t", task.MaxTagLength+1)}), "Each tag must be at most 50 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTask(t)
			err := tk.Apply(time.Now(), tt.opt)
			assert.EqualError(t, err, tt.want)
			assert.Equal(t, "Write docs", tk.Title)
		})
	}

	tk := newTask(t)
	exact := strings.Repeat("a", task.MaxTitleLength)
	require.NoError(t, tk.Apply(time.Now(), task.WithTitle(exact)))
	assert.Equal(t, exact, tk.Title)
}

func TestParse(t *testing.T) {
	s, err := task.ParseStatus("in_review")
	require.NoError(t, err)
	assert.Equal(t, task.StatusInReview, s)

	_, err = task.ParseStatus("CANCELLED")
	assert.EqualError(t, err, "Invalid status. Must be one of: TODO, IN_PROGRESS, IN_REVIEW, DONE, ARCHIVED")

	p, err := task.ParsePriority("urgent")
	require.NoError(t, err)
	assert.Equal(t, task.PriorityUrgent, p)

	_, err = task.ParsePriority("critical")
	assert.EqualError(t, err, "Invalid priority. Must be one of: LOW, MEDIUM, HIGH, URGENT")
}
