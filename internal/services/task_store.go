package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"todo-list/internal/config"
	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/logging"
	"todo-list/internal/repository"
	"todo-list/internal/validation"
)

// TaskStore is the authoritative in-memory task collection, mirrored to a
// key-value store after every mutation.
type TaskStore struct {
	mu sync.Mutex

	kv        repository.KeyValueStore
	key       string
	layout    string
	now       Clock
	mapper    *domain.TaskMapper
	validator *validation.TaskValidator

	tasks       []domain.Task
	lastID      int64
	ascending   bool
	initialized bool
}

var _ TaskService = (*TaskStore)(nil)

// TaskStoreOption configures a TaskStore
type TaskStoreOption func(*TaskStore)

// WithClock overrides the time source used for IDs and creation dates
func WithClock(now Clock) TaskStoreOption {
	return func(s *TaskStore) {
		s.now = now
	}
}

// NewTaskStore creates a store persisting under cfg.Storage.Key
func NewTaskStore(kv repository.KeyValueStore, cfg *config.Config, opts ...TaskStoreOption) *TaskStore {
	s := &TaskStore{
		kv:        kv,
		key:       cfg.Storage.Key,
		layout:    cfg.Display.TimeFormat,
		now:       time.Now,
		mapper:    domain.NewTaskMapper(),
		validator: validation.NewTaskValidator(),
		tasks:     []domain.Task{},
		ascending: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskStore) sortKey() string {
	return s.key + ".sort_ascending"
}

// Initialize loads the persisted collection. A missing or unreadable value
// yields an empty collection; only a failing store is reported.
func (s *TaskStore) Initialize(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

func (s *TaskStore) loadLocked(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return storageError("load tasks", err)
	}

	tasks := []domain.Task{}
	if ok {
		decoded, err := s.mapper.Decode(raw)
		if err != nil {
			logging.Debugf("ignoring unreadable %q value: %v\n", s.key, err)
		}
		for _, t := range decoded {
			if !t.IsValid() {
				logging.Debugf("dropping invalid task record %d %q\n", t.ID, t.Name)
				continue
			}
			tasks = append(tasks, t)
		}
	}

	ascending := true
	if rawDir, ok, err := s.kv.Get(ctx, s.sortKey()); err != nil {
		return storageError("load sort direction", err)
	} else if ok {
		parsed, perr := strconv.ParseBool(rawDir)
		if perr != nil {
			logging.Debugf("ignoring unreadable %q value: %v\n", s.sortKey(), perr)
		} else {
			ascending = parsed
		}
	}

	s.tasks = tasks
	s.ascending = ascending
	s.lastID = 0
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.initialized = true
	logging.Debugf("loaded %d tasks (ascending=%t)\n", len(tasks), ascending)
	return nil
}

// ensureLoadedLocked loads persisted state before the first mutation so a
// write never replaces data that was never read.
func (s *TaskStore) ensureLoadedLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	return s.loadLocked(ctx)
}

func (s *TaskStore) persistLocked(ctx context.Context) error {
	encoded, err := s.mapper.Encode(s.tasks)
	if err != nil {
		return storageError("encode tasks", err)
	}
	if err := s.kv.Set(ctx, s.key, encoded); err != nil {
		return storageError("save tasks", err)
	}
	return nil
}

func (s *TaskStore) persistDirectionLocked(ctx context.Context) error {
	if err := s.kv.Set(ctx, s.sortKey(), strconv.FormatBool(s.ascending)); err != nil {
		return storageError("save sort direction", err)
	}
	return nil
}

// AddTask appends a new incomplete task named by the trimmed input
func (s *TaskStore) AddTask(ctx context.Context, name string) (*domain.Task, error) {
	trimmed, err := s.validator.GetValidTaskName(name)
	if err != nil {
		return nil, errors.NewValidationError("empty task", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	created := s.now()
	id := created.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	task := domain.NewTask(id, trimmed, created, s.layout)

	prevLastID := s.lastID
	s.tasks = append(s.tasks, task)
	s.lastID = id
	if err := s.persistLocked(ctx); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		s.lastID = prevLastID
		return nil, err
	}

	logging.Debugf("added task %d %q\n", task.ID, task.Name)
	return &task, nil
}

// CompleteTask marks the task with the given ID complete. Completing an
// already complete task returns it unchanged.
func (s *TaskStore) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := s.validator.ValidateTaskID(id); err != nil {
		return nil, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}

	prev := s.tasks[idx]
	if prev.IsComplete() {
		task := prev
		return &task, nil
	}

	s.tasks[idx] = prev.Complete()
	if err := s.persistLocked(ctx); err != nil {
		s.tasks[idx] = prev
		return nil, err
	}

	task := s.tasks[idx]
	logging.Debugf("completed task %d\n", task.ID)
	return &task, nil
}

func (s *TaskStore) indexLocked(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SortBy reorders the collection on field in the requested direction. The
// shared direction toggle is left pointing the other way for the next call.
func (s *TaskStore) SortBy(ctx context.Context, field domain.SortField, ascending bool) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.sortLocked(ctx, field, ascending)
}

// SortNext sorts on field using the shared direction toggle, then flips it.
// The toggle is shared by every field.
func (s *TaskStore) SortNext(ctx context.Context, field domain.SortField) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.sortLocked(ctx, field, s.ascending)
}

func (s *TaskStore) sortLocked(ctx context.Context, field domain.SortField, ascending bool) ([]domain.Task, error) {
	prevTasks := s.snapshotLocked()
	prevAscending := s.ascending

	sorted := s.snapshotLocked()
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return field.Less(sorted[i], sorted[j])
		}
		return field.Less(sorted[j], sorted[i])
	})

	s.tasks = sorted
	s.ascending = !ascending

	if err := s.persistLocked(ctx); err != nil {
		s.tasks, s.ascending = prevTasks, prevAscending
		return nil, err
	}
	if err := s.persistDirectionLocked(ctx); err != nil {
		s.tasks, s.ascending = prevTasks, prevAscending
		if rerr := s.persistLocked(ctx); rerr != nil {
			logging.Debugf("failed to restore task order after sort: %v\n", rerr)
		}
		return nil, err
	}

	logging.Debugf("sorted by %s ascending=%t\n", field, ascending)
	return s.snapshotLocked(), nil
}

// Tasks returns the collection in its current order
func (s *TaskStore) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Ascending reports the direction the next SortNext will use
func (s *TaskStore) Ascending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ascending
}

// FilterByStatus returns tasks with the given status in collection order
func (s *TaskStore) FilterByStatus(status domain.Status) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := []domain.Task{}
	for _, t := range s.tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// StatusOptions returns the statuses present in the collection, first seen first
func (s *TaskStore) StatusOptions() []domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[domain.Status]bool)
	options := []domain.Status{}
	for _, t := range s.tasks {
		if !seen[t.Status] {
			seen[t.Status] = true
			options = append(options, t.Status)
		}
	}
	return options
}

// SearchByName returns tasks whose name contains query, ignoring case.
// An empty query matches every task.
func (s *TaskStore) SearchByName(query string) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	matches := []domain.Task{}
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			matches = append(matches, t)
		}
	}
	return matches
}

func (s *TaskStore) snapshotLocked() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// storageError keeps AppErrors raised by the store and wraps anything else
func storageError(operation string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewStorageError(operation, err)
}
