// Package inmemory is a map backed storage that mirrors the foreign key
// rules of the relational schema. It backs tests and local runs.
package inmemory

import (
	"context"
	"strings"
	"sync"

	"taskManager/internal/logger"
	"taskManager/internal/models/project"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

type memberKey struct {
	projectID uuid.UUID
	userID    uuid.UUID
}

type Store struct {
	mtx *sync.RWMutex

	users      map[uuid.UUID]*user.User
	userIDs    []uuid.UUID
	projects   map[uuid.UUID]*project.Project
	projectIDs []uuid.UUID
	members    map[memberKey]*project.Member
	memberKeys []memberKey
	tasks      map[uuid.UUID]*task.Task
	taskIDs    []uuid.UUID
	comments   map[uuid.UUID]*task.Comment
	commentIDs []uuid.UUID
	files      map[uuid.UUID]*task.Attachment
	fileIDs    []uuid.UUID
}

func New() *Store {
	return &Store{
		mtx:      &sync.RWMutex{},
		users:    make(map[uuid.UUID]*user.User),
		projects: make(map[uuid.UUID]*project.Project),
		members:  make(map[memberKey]*project.Member),
		tasks:    make(map[uuid.UUID]*task.Task),
		comments: make(map[uuid.UUID]*task.Comment),
		files:    make(map[uuid.UUID]*task.Attachment),
	}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: in-memory storage is healthy")
	return nil
}

func (s *Store) Close() {}

// remove deletes id from an insertion order slice.
func remove[T comparable](ids []T, id T) []T {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// newestFirst walks ids from the last inserted one.
func newestFirst[T any](ids []uuid.UUID, items map[uuid.UUID]*T, keep func(*T) bool) []*T {
	out := make([]*T, 0)
	for i := len(ids) - 1; i >= 0; i-- {
		item, ok := items[ids[i]]
		if !ok || !keep(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func paginate[T any](items []T, p repo.Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsPtr(haystack *string, needle string) bool {
	return haystack != nil && contains(*haystack, needle)
}
