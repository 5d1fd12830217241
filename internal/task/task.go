// Package task defines the todo item entity and its completion status.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Status represents a task completion status.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusIncomplete, StatusComplete:
		return true
	default:
		return false
	}
}

// Symbol returns the single-character marker used in listings.
func (s Status) Symbol() string {
	switch s {
	case StatusComplete:
		return "✓"
	default:
		return "○"
	}
}

// ParseStatus converts text into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q, must be one of: incomplete, complete", s)
	}
	return status, nil
}

// Task is a single todo item. The ID and CreatedAt never change once the
// task is constructed.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// New creates an incomplete task stamped with the current time.
func New(id int, title, description string) *Task {
	return NewWithStatus(id, title, description, StatusIncomplete, time.Time{})
}

// NewWithStatus creates a task with an explicit status and creation time.
// A zero createdAt is replaced with the current time.
func NewWithStatus(id int, title, description string, status Status, createdAt time.Time) *Task {
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if !status.Valid() {
		status = StatusIncomplete
	}
	return &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   createdAt,
	}
}

// UpdateTitle replaces the title.
func (t *Task) UpdateTitle(title string) {
	t.Title = title
}

// UpdateDescription replaces the description.
func (t *Task) UpdateDescription(description string) {
	t.Description = description
}

// MarkComplete sets the status to complete.
func (t *Task) MarkComplete() {
	t.Status = StatusComplete
}

// MarkIncomplete sets the status to incomplete.
func (t *Task) MarkIncomplete() {
	t.Status = StatusIncomplete
}

// IsComplete returns true if the task is complete.
func (t *Task) IsComplete() bool {
	return t.Status == StatusComplete
}

func (t *Task) String() string {
	return fmt.Sprintf("[%d] %s %s", t.ID, t.Status.Symbol(), t.Title)
}
