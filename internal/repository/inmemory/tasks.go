package inmemory

import (
	"context"
	"fmt"

	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

func copyTask(t *task.Task) *task.Task {
	c := *t
	c.Tags = append([]string{}, t.Tags...)
	return &c
}

func (s *Store) checkTaskRefs(t *task.Task) error {
	if _, ok := s.projects[t.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", t.ProjectID, repo.ErrReference)
	}
	if _, ok := s.users[t.ReporterID]; !ok {
		return fmt.Errorf("reporter %s: %w", t.ReporterID, repo.ErrReference)
	}
	if t.AssigneeID != nil {
		if _, ok := s.users[*t.AssigneeID]; !ok {
			return fmt.Errorf("assignee %s: %w", *t.AssigneeID, repo.ErrReference)
		}
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.checkTaskRefs(t); err != nil {
		return err
	}
	s.tasks[t.ID] = copyTask(t)
	s.taskIDs = append(s.taskIDs, t.ID)
	return nil
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return repo.ErrNotFound
	}
	if err := s.checkTaskRefs(t); err != nil {
		return err
	}
	s.tasks[t.ID] = copyTask(t)
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repo.ErrNotFound
	}
	s.deleteTask(id)
	return nil
}

func (s *Store) deleteTask(id uuid.UUID) {
	for _, c := range s.comments {
		if c.TaskID == id {
			s.deleteComment(c.ID)
		}
	}
	for _, a := range s.files {
		if a.TaskID == id {
			delete(s.files, a.ID)
			s.fileIDs = remove(s.fileIDs, a.ID)
		}
	}
	delete(s.tasks, id)
	s.taskIDs = remove(s.taskIDs, id)
}

func (s *Store) ListTasks(ctx context.Context, f repo.TaskFilter, p repo.Page) ([]repo.TaskRow, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matched := newestFirst(s.taskIDs, s.tasks, func(t *task.Task) bool {
		if f.ProjectID != nil {
			if t.ProjectID != *f.ProjectID {
				return false
			}
		} else if _, ok := s.members[memberKey{t.ProjectID, f.MemberID}]; !ok {
			return false
		}
		if f.Status != nil && t.Status != *f.Status {
			return false
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			return false
		}
		if f.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID) {
			return false
		}
		if f.ReporterID != nil && t.ReporterID != *f.ReporterID {
			return false
		}
		if f.Search != "" && !contains(t.Title, f.Search) && !containsPtr(t.Description, f.Search) {
			return false
		}
		if f.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*f.DueBefore)) {
			return false
		}
		if f.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueAfter)) {
			return false
		}
		return true
	})

	rows := make([]repo.TaskRow, 0)
	for _, t := range paginate(matched, p) {
		row := repo.TaskRow{Task: copyTask(t)}
		for _, c := range s.comments {
			if c.TaskID == t.ID {
				row.CommentCount++
			}
		}
		for _, a := range s.files {
			if a.TaskID == t.ID {
				row.AttachmentCount++
			}
		}
		rows = append(rows, row)
	}
	return rows, len(matched), nil
}

func (s *Store) ListAttachments(ctx context.Context, taskID uuid.UUID) ([]*task.Attachment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	out := make([]*task.Attachment, 0)
	for _, id := range s.fileIDs {
		if a := s.files[id]; a.TaskID == taskID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}
