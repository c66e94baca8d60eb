package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the completion state of a task.
// The underlying ordinal is what gets persisted and what status sorting compares.
type Status int

const (
	StatusIncomplete Status = iota
	StatusComplete
)

// String returns the display text for the status.
func (s Status) String() string {
	if s == StatusIncomplete {
		return "Incomplete"
	}
	return "Complete"
}

// ParseStatus accepts a display name (any case) or the persisted ordinal.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incomplete", "0":
		return StatusIncomplete, nil
	case "complete", "1":
		return StatusComplete, nil
	default:
		return StatusIncomplete, fmt.Errorf("unknown status %q", s)
	}
}

// Task represents a task in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID        int64
	Name      string
	CreatedAt string
	Status    Status
}

// NewTask creates an incomplete task. The ID is the creation instant in
// Unix milliseconds and CreatedAt is that instant rendered with layout.
func NewTask(id int64, name string, createdAt time.Time, layout string) Task {
	return Task{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt.Format(layout),
		Status:    StatusIncomplete,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.ID > 0 && strings.TrimSpace(t.Name) != ""
}

// IsComplete reports whether the task has been marked complete.
func (t Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// Complete returns the task with its status set to Complete.
// There is no reverse transition.
func (t Task) Complete() Task {
	t.Status = StatusComplete
	return t
}

// Created returns the creation instant encoded in the ID.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.ID)
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}
