package services

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"todo-list/internal/config"
	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/repository"
	"todo-list/internal/repository/memory"
	"todo-list/internal/repository/sqlkv"
	"todo-list/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) Clock {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

var testEpoch = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func setupTaskStore(t *testing.T) (*TaskStore, *memory.Store) {
	t.Helper()
	kv := memory.New()
	store := NewTaskStore(kv, config.NewConfig(), WithClock(steppingClock(testEpoch, time.Second)))
	_, err := store.Initialize(context.Background())
	require.NoError(t, err)
	return store, kv
}

func addTasks(t *testing.T, store *TaskStore, names ...string) []domain.Task {
	t.Helper()
	var added []domain.Task
	for _, name := range names {
		task, err := store.AddTask(context.Background(), name)
		require.NoError(t, err)
		added = append(added, *task)
	}
	return added
}

func taskNames(tasks []domain.Task) []string {
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name
	}
	return names
}

func TestTaskStore_Initialize(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		expected []string
	}{
		{
			name:     "should start empty when nothing is persisted",
			values:   map[string]string{},
			expected: []string{},
		},
		{
			name:     "should load persisted tasks in order",
			values:   map[string]string{"tasks": `[{"id":2,"name":"b","date":"d","status":1},{"id":1,"name":"a","date":"d","status":0}]`},
			expected: []string{"b", "a"},
		},
		{
			name:     "should treat malformed data as empty",
			values:   map[string]string{"tasks": `{not json`},
			expected: []string{},
		},
		{
			name:     "should drop records without an id or name",
			values:   map[string]string{"tasks": `[{"id":0,"name":"zero","date":"d","status":0},{"id":3,"name":"kept","date":"d","status":0},{"id":4,"name":"  ","date":"d","status":0}]`},
			expected: []string{"kept"},
		},
		{
			name:     "should treat JSON null as empty",
			values:   map[string]string{"tasks": `null`},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := memory.NewWithValues(tt.values)
			store := NewTaskStore(kv, config.NewConfig())

			tasks, err := store.Initialize(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, taskNames(tasks))
		})
	}
}

func TestTaskStore_Initialize_MalformedDataIsNotOverwritten(t *testing.T) {
	kv := memory.NewWithValues(map[string]string{"tasks": `garbage`})
	store := NewTaskStore(kv, config.NewConfig())

	_, err := store.Initialize(context.Background())
	require.NoError(t, err)

	raw, _, _ := kv.Get(context.Background(), "tasks")
	assert.Equal(t, "garbage", raw)
}

func TestTaskStore_Initialize_StorageFailure(t *testing.T) {
	store := NewTaskStore(&failingStore{getErr: stderrors.New("disk gone")}, config.NewConfig())

	_, err := store.Initialize(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
}

func TestTaskStore_AddTask(t *testing.T) {
	tests := []struct {
		name         string
		taskName     string
		expectedName string
		expectError  bool
	}{
		{name: "should add task with valid name", taskName: "Buy milk", expectedName: "Buy milk"},
		{name: "should trim surrounding whitespace", taskName: "  walk dog\t", expectedName: "walk dog"},
		{name: "should reject empty name", taskName: "", expectError: true},
		{name: "should reject whitespace-only name", taskName: "   ", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, kv := setupTaskStore(t)
			before := len(store.Tasks())

			task, err := store.AddTask(context.Background(), tt.taskName)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, task)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Equal(t, validation.EmptyTaskMessage, errors.GetUserMessage(err))
				assert.Len(t, store.Tasks(), before)
				_, persisted, _ := kv.Get(context.Background(), "tasks")
				assert.False(t, persisted, "a rejected add must not write")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, task)
			assert.Equal(t, tt.expectedName, task.Name)
			assert.Equal(t, domain.StatusIncomplete, task.Status)
			assert.Equal(t, testEpoch.UnixMilli(), task.ID)
			assert.Equal(t, "3/9/2024, 2:05:00 PM", task.CreatedAt)
			assert.Len(t, store.Tasks(), before+1)
			assert.Equal(t, *task, store.Tasks()[len(store.Tasks())-1])
		})
	}
}

func TestTaskStore_AddTask_PersistsFullCollection(t *testing.T) {
	store, kv := setupTaskStore(t)
	addTasks(t, store, "one", "two")

	raw, ok, err := kv.Get(context.Background(), "tasks")
	require.NoError(t, err)
	require.True(t, ok)

	decoded, err := domain.NewTaskMapper().Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, store.Tasks(), decoded)
}

func TestTaskStore_AddTask_IDsStrictlyIncrease(t *testing.T) {
	kv := memory.New()
	frozen := func() time.Time { return testEpoch }
	store := NewTaskStore(kv, config.NewConfig(), WithClock(frozen))

	added := addTasks(t, store, "a", "b", "c")

	assert.Equal(t, testEpoch.UnixMilli(), added[0].ID)
	assert.Equal(t, added[0].ID+1, added[1].ID)
	assert.Equal(t, added[1].ID+1, added[2].ID)
}

func TestTaskStore_AddTask_ClockBehindPersistedIDs(t *testing.T) {
	kv := memory.NewWithValues(map[string]string{
		"tasks": `[{"id":9000000000000,"name":"future","date":"d","status":0}]`,
	})
	store := NewTaskStore(kv, config.NewConfig(), WithClock(func() time.Time { return testEpoch }))

	task, err := store.AddTask(context.Background(), "now")

	require.NoError(t, err)
	assert.Equal(t, int64(9000000000001), task.ID)
}

func TestTaskStore_AddTask_LoadsBeforeFirstWrite(t *testing.T) {
	kv := memory.NewWithValues(map[string]string{
		"tasks": `[{"id":1,"name":"existing","date":"d","status":0}]`,
	})
	store := NewTaskStore(kv, config.NewConfig())

	_, err := store.AddTask(context.Background(), "new")

	require.NoError(t, err)
	assert.Equal(t, []string{"existing", "new"}, taskNames(store.Tasks()))
}

func TestTaskStore_AddTask_StorageFailureRollsBack(t *testing.T) {
	kv := &failingStore{Store: memory.New()}
	store := NewTaskStore(kv, config.NewConfig())
	_, err := store.Initialize(context.Background())
	require.NoError(t, err)

	kv.setErr = stderrors.New("read-only")
	_, err = store.AddTask(context.Background(), "doomed")

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	assert.Empty(t, store.Tasks())
}

func TestTaskStore_CompleteTask(t *testing.T) {
	store, _ := setupTaskStore(t)
	added := addTasks(t, store, "a", "b")

	task, err := store.CompleteTask(context.Background(), added[1].ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, task.Status)
	assert.Equal(t, domain.StatusIncomplete, store.Tasks()[0].Status)
	assert.Equal(t, domain.StatusComplete, store.Tasks()[1].Status)
	assert.Contains(t, store.FilterByStatus(domain.StatusComplete), *task)
}

func TestTaskStore_CompleteTask_Idempotent(t *testing.T) {
	store, _ := setupTaskStore(t)
	added := addTasks(t, store, "a")

	first, err := store.CompleteTask(context.Background(), added[0].ID)
	require.NoError(t, err)
	second, err := store.CompleteTask(context.Background(), added[0].ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.FilterByStatus(domain.StatusComplete), 1)
}

func TestTaskStore_CompleteTask_NotFound(t *testing.T) {
	store, _ := setupTaskStore(t)
	addTasks(t, store, "a")

	for _, id := range []int64{42, 0, -1} {
		task, err := store.CompleteTask(context.Background(), id)

		require.Error(t, err)
		assert.Nil(t, task)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	}
}

func TestTaskStore_FilterByStatus(t *testing.T) {
	store, _ := setupTaskStore(t)
	added := addTasks(t, store, "a", "b", "c")
	_, err := store.CompleteTask(context.Background(), added[1].ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, taskNames(store.FilterByStatus(domain.StatusIncomplete)))
	assert.Equal(t, []string{"b"}, taskNames(store.FilterByStatus(domain.StatusComplete)))
	assert.Equal(t, []string{"a", "b", "c"}, taskNames(store.Tasks()), "filtering must not reorder")
}

func TestTaskStore_StatusOptions(t *testing.T) {
	store, _ := setupTaskStore(t)
	assert.Empty(t, store.StatusOptions())

	added := addTasks(t, store, "a", "b")
	assert.Equal(t, []domain.Status{domain.StatusIncomplete}, store.StatusOptions())

	_, err := store.CompleteTask(context.Background(), added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{domain.StatusComplete, domain.StatusIncomplete}, store.StatusOptions())
}

func TestTaskStore_SearchByName(t *testing.T) {
	store, _ := setupTaskStore(t)
	addTasks(t, store, "Buy milk", "buy bread", "Walk dog", "MILKSHAKE")

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"Buy milk", "buy bread", "Walk dog", "MILKSHAKE"}},
		{"milk", []string{"Buy milk", "MILKSHAKE"}},
		{"BUY", []string{"Buy milk", "buy bread"}},
		{"cat", []string{}},
		{" ", []string{"Buy milk", "buy bread", "Walk dog"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, taskNames(store.SearchByName(tt.query)))
		})
	}
}

func TestTaskStore_SearchByName_NoFalseNegatives(t *testing.T) {
	store, _ := setupTaskStore(t)
	addTasks(t, store, "Alpha", "alphabet", "Beta", "GAMMA ray", "delta")

	for _, query := range []string{"a", "AL", "ph", "ray", "x", "ta"} {
		results := store.SearchByName(query)
		matched := make(map[int64]bool)
		for _, task := range results {
			assert.Contains(t, strings.ToLower(task.Name), strings.ToLower(query))
			matched[task.ID] = true
		}
		for _, task := range store.Tasks() {
			if strings.Contains(strings.ToLower(task.Name), strings.ToLower(query)) {
				assert.True(t, matched[task.ID], "query %q missed %q", query, task.Name)
			}
		}
	}
}

func TestTaskStore_SortBy_NameSharedToggle(t *testing.T) {
	store, _ := setupTaskStore(t)
	addTasks(t, store, "Banana", "apple", "Cherry")
	ctx := context.Background()

	sorted, err := store.SortBy(ctx, domain.SortByName, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, taskNames(sorted))
	assert.False(t, store.Ascending())

	sorted, err = store.SortNext(ctx, domain.SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry", "Banana", "apple"}, taskNames(sorted))
	assert.True(t, store.Ascending())
}

func TestTaskStore_SortNext_ToggleSharedAcrossFields(t *testing.T) {
	store, _ := setupTaskStore(t)
	added := addTasks(t, store, "b", "a", "c")
	ctx := context.Background()
	_, err := store.CompleteTask(ctx, added[0].ID)
	require.NoError(t, err)

	// ascending on date
	sorted, err := store.SortNext(ctx, domain.SortByCreation)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, taskNames(sorted))

	// the name sort now runs descending because the toggle is shared
	sorted, err = store.SortNext(ctx, domain.SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, taskNames(sorted))

	// ascending on status; the stable sort keeps c before a
	sorted, err = store.SortNext(ctx, domain.SortByStatus)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, taskNames(sorted))
}

func TestTaskStore_SortBy_PersistsOrderAndDirection(t *testing.T) {
	kv := memory.New()
	cfg := config.NewConfig()
	store := NewTaskStore(kv, cfg, WithClock(steppingClock(testEpoch, time.Second)))
	addTasks(t, store, "Banana", "apple", "Cherry")

	_, err := store.SortNext(context.Background(), domain.SortByName)
	require.NoError(t, err)

	reopened := NewTaskStore(kv, cfg)
	tasks, err := reopened.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, taskNames(tasks))
	assert.False(t, reopened.Ascending())

	sorted, err := reopened.SortNext(context.Background(), domain.SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry", "Banana", "apple"}, taskNames(sorted))
}

func TestTaskStore_SortNext_DirectionWriteFailureRestoresOrder(t *testing.T) {
	kv := &failingStore{Store: memory.New()}
	store := NewTaskStore(kv, config.NewConfig(), WithClock(steppingClock(testEpoch, time.Second)))
	_, err := store.Initialize(context.Background())
	require.NoError(t, err)
	addTasks(t, store, "b", "a")

	kv.setErr = stderrors.New("read-only")
	kv.setKey = "tasks.sort_ascending"
	_, err = store.SortNext(context.Background(), domain.SortByName)

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	assert.Equal(t, []string{"b", "a"}, taskNames(store.Tasks()))
	assert.True(t, store.Ascending())

	reopened := NewTaskStore(kv, config.NewConfig())
	tasks, err := reopened.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, taskNames(tasks))
}

func TestTaskStore_RoundTripThroughSQLStore(t *testing.T) {
	repo, err := sqlkv.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := config.NewConfig()
	store := NewTaskStore(repo, cfg, WithClock(steppingClock(testEpoch, time.Minute)))
	added := addTasks(t, store, "Buy milk", "Write report", "Call mom")
	_, err = store.CompleteTask(context.Background(), added[1].ID)
	require.NoError(t, err)
	_, err = store.SortBy(context.Background(), domain.SortByName, false)
	require.NoError(t, err)

	reopened := NewTaskStore(repo, cfg)
	tasks, err := reopened.Initialize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, store.Tasks(), tasks)
}

func TestTaskStore_EndToEnd(t *testing.T) {
	store, _ := setupTaskStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Len(t, store.Tasks(), 1)
	assert.Equal(t, domain.StatusIncomplete, task.Status)
	assert.Equal(t, []domain.Status{domain.StatusIncomplete}, store.StatusOptions())

	_, err = store.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Status{domain.StatusIncomplete, domain.StatusComplete}, store.StatusOptions())

	complete := store.FilterByStatus(domain.StatusComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, task.ID, complete[0].ID)
}

func TestTaskStore_ViewsReturnCopies(t *testing.T) {
	store, _ := setupTaskStore(t)
	addTasks(t, store, "a")

	view := store.Tasks()
	view[0].Name = "mutated"

	assert.Equal(t, "a", store.Tasks()[0].Name)
}

// failingStore wraps a memory store and fails Get or Set on demand. When
// setKey is set only writes to that key fail.
type failingStore struct {
	*memory.Store
	getErr error
	setErr error
	setKey string
}

var _ repository.KeyValueStore = (*failingStore)(nil)

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	if f.Store == nil {
		return "", false, nil
	}
	return f.Store.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil && (f.setKey == "" || f.setKey == key) {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func (f *failingStore) Close() error {
	if f.Store == nil {
		return nil
	}
	return f.Store.Close()
}
