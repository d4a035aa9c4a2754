package inmemory

import (
	"context"
	"fmt"

	"taskManager/internal/models/project"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

func copyProject(p *project.Project) *project.Project {
	c := *p
	return &c
}

// CreateProject stores the project and the owner's membership together.
func (s *Store) CreateProject(ctx context.Context, p *project.Project, owner *project.Member) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[p.OwnerID]; !ok {
		return fmt.Errorf("owner %s: %w", p.OwnerID, repo.ErrReference)
	}
	if _, ok := s.projects[p.ID]; ok {
		return fmt.Errorf("project %s: %w", p.ID, repo.ErrConflict)
	}

	s.projects[p.ID] = copyProject(p)
	s.projectIDs = append(s.projectIDs, p.ID)

	if owner != nil {
		if err := s.addMember(owner); err != nil {
			s.deleteProject(p.ID)
			return err
		}
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyProject(p), nil
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.projects[p.ID]; !ok {
		return repo.ErrNotFound
	}
	s.projects[p.ID] = copyProject(p)
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.projects[id]; !ok {
		return repo.ErrNotFound
	}
	s.deleteProject(id)
	return nil
}

func (s *Store) deleteProject(id uuid.UUID) {
	for _, key := range append([]memberKey(nil), s.memberKeys...) {
		if key.projectID == id {
			s.deleteMember(key)
		}
	}
	for _, t := range s.tasks {
		if t.ProjectID == id {
			s.deleteTask(t.ID)
		}
	}
	delete(s.projects, id)
	s.projectIDs = remove(s.projectIDs, id)
}

func (s *Store) ListProjects(ctx context.Context, f repo.ProjectFilter, p repo.Page) ([]repo.ProjectRow, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matched := newestFirst(s.projectIDs, s.projects, func(pr *project.Project) bool {
		m, ok := s.members[memberKey{pr.ID, f.MemberID}]
		if !ok {
			return false
		}
		if f.Role != nil && m.Role != *f.Role {
			return false
		}
		if f.Status != nil && pr.Status != *f.Status {
			return false
		}
		if f.Search != "" && !contains(pr.Name, f.Search) && !containsPtr(pr.Description, f.Search) {
			return false
		}
		return true
	})

	rows := make([]repo.ProjectRow, 0)
	for _, pr := range paginate(matched, p) {
		rows = append(rows, repo.ProjectRow{
			Project:     copyProject(pr),
			UserRole:    s.members[memberKey{pr.ID, f.MemberID}].Role,
			MemberCount: s.countMembers(pr.ID),
		})
	}
	return rows, len(matched), nil
}

func (s *Store) countMembers(projectID uuid.UUID) int {
	n := 0
	for key := range s.members {
		if key.projectID == projectID {
			n++
		}
	}
	return n
}

func (s *Store) withUser(m *project.Member) *project.Member {
	c := *m
	if u, ok := s.users[m.UserID]; ok {
		c.Email = u.Email
		c.FullName = u.FullName
	}
	return &c
}

func (s *Store) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*project.Member, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	m, ok := s.members[memberKey{projectID, userID}]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.withUser(m), nil
}

// ListMembers returns members in the order they joined.
func (s *Store) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*project.Member, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	out := make([]*project.Member, 0)
	for _, key := range s.memberKeys {
		if key.projectID == projectID {
			out = append(out, s.withUser(s.members[key]))
		}
	}
	return out, nil
}

func (s *Store) AddMember(ctx context.Context, m *project.Member) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.addMember(m)
}

func (s *Store) addMember(m *project.Member) error {
	if _, ok := s.projects[m.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", m.ProjectID, repo.ErrReference)
	}
	if _, ok := s.users[m.UserID]; !ok {
		return fmt.Errorf("user %s: %w", m.UserID, repo.ErrReference)
	}
	key := memberKey{m.ProjectID, m.UserID}
	if _, ok := s.members[key]; ok {
		return fmt.Errorf("member %s: %w", m.UserID, repo.ErrConflict)
	}

	c := *m
	c.Email, c.FullName = "", ""
	s.members[key] = &c
	s.memberKeys = append(s.memberKeys, key)
	return nil
}

func (s *Store) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := memberKey{projectID, userID}
	if _, ok := s.members[key]; !ok {
		return repo.ErrNotFound
	}
	s.deleteMember(key)
	return nil
}

func (s *Store) deleteMember(key memberKey) {
	delete(s.members, key)
	s.memberKeys = remove(s.memberKeys, key)
}

func (s *Store) TaskSummary(ctx context.Context, projectID uuid.UUID) (project.TaskSummary, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var sum project.TaskSummary
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			continue
		}
		sum.Total++
		switch t.Status {
		case task.StatusTodo:
			sum.Todo++
		case task.StatusInProgress:
			sum.InProgress++
		case task.StatusDone:
			sum.Done++
		}
	}
	return sum, nil
}
