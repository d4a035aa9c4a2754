package inmemory

import (
	"context"
	"fmt"

	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

func (s *Store) withAuthor(c *task.Comment) *task.Comment {
	out := *c
	if u, ok := s.users[c.UserID]; ok {
		out.AuthorName = u.FullName
	}
	return &out
}

func (s *Store) CreateComment(ctx context.Context, c *task.Comment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[c.TaskID]; !ok {
		return fmt.Errorf("task %s: %w", c.TaskID, repo.ErrReference)
	}
	if _, ok := s.users[c.UserID]; !ok {
		return fmt.Errorf("user %s: %w", c.UserID, repo.ErrReference)
	}
	if c.ParentID != nil {
		if _, ok := s.comments[*c.ParentID]; !ok {
			return fmt.Errorf("parent comment %s: %w", *c.ParentID, repo.ErrReference)
		}
	}

	stored := *c
	stored.AuthorName = ""
	s.comments[c.ID] = &stored
	s.commentIDs = append(s.commentIDs, c.ID)
	return nil
}

func (s *Store) GetComment(ctx context.Context, id uuid.UUID) (*task.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.withAuthor(c), nil
}

func (s *Store) UpdateComment(ctx context.Context, c *task.Comment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.comments[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Content = c.Content
	stored.IsEdited = c.IsEdited
	stored.UpdatedAt = c.UpdatedAt
	return nil
}

// DeleteComment removes the comment and all of its replies.
func (s *Store) DeleteComment(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.comments[id]; !ok {
		return repo.ErrNotFound
	}
	s.deleteComment(id)
	return nil
}

func (s *Store) deleteComment(id uuid.UUID) {
	if _, ok := s.comments[id]; !ok {
		return
	}
	delete(s.comments, id)
	s.commentIDs = remove(s.commentIDs, id)

	for _, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			s.deleteComment(c.ID)
		}
	}
}

// ListComments returns the task's comments oldest first.
func (s *Store) ListComments(ctx context.Context, taskID uuid.UUID) ([]*task.Comment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	out := make([]*task.Comment, 0)
	for _, id := range s.commentIDs {
		if c := s.comments[id]; c.TaskID == taskID {
			out = append(out, s.withAuthor(c))
		}
	}
	return out, nil
}
