package todo

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/store"
	"github.com/nibzard/todo-go/internal/task"
)

// Length limits, counted in characters after trimming.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
)

// Stats summarizes the task list.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// Service validates input and applies task operations to a store.
// It is the only component allowed to create or change tasks.
type Service struct {
	mu     sync.Mutex
	store  *store.Store
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for operation events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp new tasks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a service backed by st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateTitle trims the title and checks it is non-empty and within
// MaxTitleLength.
func (s *Service) ValidateTitle(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationErrorf("title", "Task title cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", validationErrorf("title", "Task title exceeds %d characters", MaxTitleLength)
	}
	return trimmed, nil
}

// ValidateDescription trims the description and checks it is within
// MaxDescriptionLength. Empty input is allowed.
func (s *Service) ValidateDescription(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return "", validationErrorf("description", "Description exceeds %d characters", MaxDescriptionLength)
	}
	return trimmed, nil
}

// RequireExists returns a NotFoundError if no task has the given ID.
func (s *Service) RequireExists(id int) error {
	if !s.store.Exists(id) {
		return &NotFoundError{ID: id}
	}
	return nil
}

// Add validates the input and stores a new incomplete task.
func (s *Service) Add(title, description string) (task.Task, error) {
	validTitle, err := s.ValidateTitle(title)
	if err != nil {
		return task.Task{}, err
	}
	validDescription, err := s.ValidateDescription(description)
	if err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.NewWithStatus(s.store.NextID(), validTitle, validDescription, task.StatusIncomplete, s.now())
	s.store.Insert(t)

	s.logger.Debug("task added", "id", t.ID, "title", t.Title)
	return *t, nil
}

// List returns every task in ascending ID order.
func (s *Service) List() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Service) snapshot() []task.Task {
	stored := s.store.List()
	out := make([]task.Task, len(stored))
	for i, t := range stored {
		out[i] = *t
	}
	return out
}

// Get returns the task with the given ID.
func (s *Service) Get(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(id)
	if err != nil {
		return task.Task{}, err
	}
	return *t, nil
}

func (s *Service) lookup(id int) (*task.Task, error) {
	if err := s.RequireExists(id); err != nil {
		return nil, err
	}
	t, _ := s.store.Get(id)
	return t, nil
}

// Update changes the title and/or description of a task. A nil argument
// leaves that field untouched. Every provided field is validated before any
// change is applied, title first. The returned bool reports whether a stored
// value actually changed.
func (s *Service) Update(id int, newTitle, newDescription *string) (task.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(id)
	if err != nil {
		return task.Task{}, false, err
	}

	var title, description string
	if newTitle != nil {
		if title, err = s.ValidateTitle(*newTitle); err != nil {
			return *t, false, err
		}
	}
	if newDescription != nil {
		if description, err = s.ValidateDescription(*newDescription); err != nil {
			return *t, false, err
		}
	}

	changed := false
	if newTitle != nil && title != t.Title {
		t.UpdateTitle(title)
		changed = true
	}
	if newDescription != nil && description != t.Description {
		t.UpdateDescription(description)
		changed = true
	}

	if changed {
		s.logger.Debug("task updated", "id", t.ID)
	}
	return *t, changed, nil
}

// Delete removes a task and returns it for confirmation.
func (s *Service) Delete(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(id)
	if err != nil {
		return task.Task{}, err
	}
	s.store.Remove(id)

	s.logger.Debug("task deleted", "id", id)
	return *t, nil
}

// MarkComplete moves an incomplete task to complete.
func (s *Service) MarkComplete(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setStatus(id, task.StatusComplete)
}

// MarkIncomplete moves a complete task back to incomplete.
func (s *Service) MarkIncomplete(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setStatus(id, task.StatusIncomplete)
}

// Toggle flips the status of a task.
func (s *Service) Toggle(id int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(id)
	if err != nil {
		return task.Task{}, err
	}
	if t.IsComplete() {
		return s.setStatus(id, task.StatusIncomplete)
	}
	return s.setStatus(id, task.StatusComplete)
}

// setStatus rejects transitions into the status the task already has.
func (s *Service) setStatus(id int, status task.Status) (task.Task, error) {
	t, err := s.lookup(id)
	if err != nil {
		return task.Task{}, err
	}
	if t.Status == status {
		return *t, validationErrorf("status", "Task is already %s", status)
	}

	switch status {
	case task.StatusComplete:
		t.MarkComplete()
	case task.StatusIncomplete:
		t.MarkIncomplete()
	}

	s.logger.Debug("task status changed", "id", id, "status", status)
	return *t, nil
}

// Reset removes every task and restarts ID assignment at 1.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Reset()
	s.logger.Debug("tasks reset")
}

// Statistics counts total, completed and remaining tasks.
func (s *Service) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ComputeStats(s.snapshot())
}

// ComputeStats derives Stats from a task listing.
func ComputeStats(tasks []task.Task) Stats {
	stats := Stats{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].IsComplete() {
			stats.Completed++
		}
	}
	stats.Remaining = stats.Total - stats.Completed
	return stats
}
