package inmemory

import (
	"context"
	"fmt"

	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.emailTaken(u.Email, uuid.Nil) {
		return fmt.Errorf("email %s: %w", u.Email, repo.ErrConflict)
	}
	s.users[u.ID] = copyUser(u)
	s.userIDs = append(s.userIDs, u.ID)
	return nil
}

func (s *Store) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return fmt.Errorf("email %s: %w", u.Email, repo.ErrConflict)
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

// DeleteUser removes the user together with owned projects, memberships,
// reported tasks and authored comments. Assigned tasks lose their assignee.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[id]; !ok {
		return repo.ErrNotFound
	}

	for _, p := range s.projects {
		if p.OwnerID == id {
			s.deleteProject(p.ID)
		}
	}
	for _, key := range append([]memberKey(nil), s.memberKeys...) {
		if key.userID == id {
			s.deleteMember(key)
		}
	}
	for _, t := range s.tasks {
		if t.ReporterID == id {
			s.deleteTask(t.ID)
			continue
		}
		if t.AssigneeID != nil && *t.AssigneeID == id {
			t.AssigneeID = nil
		}
	}
	for _, c := range s.comments {
		if c.UserID == id {
			s.deleteComment(c.ID)
		}
	}

	delete(s.users, id)
	s.userIDs = remove(s.userIDs, id)
	return nil
}

func (s *Store) ListUsers(ctx context.Context, f repo.UserFilter, p repo.Page) ([]*user.User, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matched := newestFirst(s.userIDs, s.users, func(u *user.User) bool {
		if f.Role != nil && u.Role != *f.Role {
			return false
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			return false
		}
		if f.Search != "" && !contains(u.Email, f.Search) && !contains(u.FullName, f.Search) {
			return false
		}
		return true
	})

	out := make([]*user.User, 0)
	for _, u := range paginate(matched, p) {
		out = append(out, copyUser(u))
	}
	return out, len(matched), nil
}
