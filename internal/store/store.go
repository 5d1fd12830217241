// Package store keeps tasks in memory and hands out sequential IDs.
//
// IDs start at 1 and are never issued twice during the lifetime of a Store:
// removing a task does not move the counter back. Only Reset returns the
// counter to its initial value, and it empties the store at the same time.
package store

import (
	"sort"
	"sync"

	"github.com/nibzard/todo-go/internal/task"
)

// FirstID is the ID assigned to the first task of an empty store.
const FirstID = 1

// Store maps task IDs to tasks.
//
// Each method is atomic on its own. Reading NextID and then calling Insert is
// not; callers that allocate IDs must serialize that sequence themselves.
type Store struct {
	mu     sync.RWMutex
	tasks  map[int]*task.Task
	nextID int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		tasks:  make(map[int]*task.Task),
		nextID: FirstID,
	}
}

// Insert stores t under its ID and advances the counter past it.
// An existing task with the same ID is replaced.
func (s *Store) Insert(t *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = t
	if t.ID+1 > s.nextID {
		s.nextID = t.ID + 1
	}
}

// Get returns the task with the given ID, if present.
func (s *Store) Get(id int) (*task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	return t, ok
}

// List returns all tasks sorted by ascending ID.
func (s *Store) List() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Remove deletes the task with the given ID and reports whether it existed.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Exists reports whether a task with the given ID is stored.
func (s *Store) Exists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tasks[id]
	return ok
}

// NextID returns the ID the next task should receive. It does not reserve it.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextID
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}

// Reset removes every task and restarts IDs at FirstID.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[int]*task.Task)
	s.nextID = FirstID
}
