package services

import (
	"context"
	"time"

	"todo-list/internal/domain"
)

// Clock returns the current time. Tests substitute a fixed sequence.
type Clock func() time.Time

// TaskService owns the task collection and its shared sort direction
type TaskService interface {
	// Lifecycle
	Initialize(ctx context.Context) ([]domain.Task, error)

	// Mutations, persisted before returning
	AddTask(ctx context.Context, name string) (*domain.Task, error)
	CompleteTask(ctx context.Context, id int64) (*domain.Task, error)
	SortBy(ctx context.Context, field domain.SortField, ascending bool) ([]domain.Task, error)
	SortNext(ctx context.Context, field domain.SortField) ([]domain.Task, error)

	// Views, never mutate
	Tasks() []domain.Task
	FilterByStatus(status domain.Status) []domain.Task
	StatusOptions() []domain.Status
	SearchByName(query string) []domain.Task
	Ascending() bool
}

// QuoteService fetches quote text from the remote quotes endpoint
type QuoteService interface {
	Fetch(ctx context.Context) (*Quote, error)
}

// ModeService owns the light/dark display preference
type ModeService interface {
	Load(ctx context.Context) (Mode, error)
	Current() Mode
	Toggle(ctx context.Context) (Mode, error)
	Appearance() Appearance
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService  TaskService
	QuoteService QuoteService
	QuoteBoard   *QuoteBoard
	ModeService  ModeService
}
