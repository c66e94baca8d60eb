package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"todo-list/internal/config"
	"todo-list/internal/repository/memory"
	"todo-list/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe to read while the shell timer writes
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setupShell(t *testing.T, input string, duration time.Duration) (*Shell, *services.ServiceContainer, *lockedBuffer) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Display.MessageDuration = duration

	container := services.NewServiceContainer(memory.New(), cfg, nil)
	require.NoError(t, container.Initialize(context.Background()))

	out := &lockedBuffer{}
	return NewShell(container, cfg, strings.NewReader(input), out), container, out
}

func TestShell_Run(t *testing.T) {
	shell, container, out := setupShell(t, "add Buy milk\nadd   \nlist\nexit\nadd never\n", time.Hour)

	require.NoError(t, shell.Run(context.Background()))

	tasks := container.TaskService.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Name)

	output := out.String()
	assert.Contains(t, output, "No tasks found")
	assert.Contains(t, output, "Added task")
	assert.Contains(t, output, "Task cannot be empty!")
	assert.Contains(t, output, shellPrompt)
}

func TestShell_UsageErrorsShowPlainMessage(t *testing.T) {
	shell, _, out := setupShell(t, "sort\nmode purple\nfrobnicate\n", time.Hour)

	require.NoError(t, shell.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "usage: todo sort <date|task|status>")
	assert.Contains(t, output, "usage: todo mode [toggle]")
	assert.Contains(t, output, "unknown command")
	assert.NotContains(t, output, "invalid_input:")
}

func TestShell_Help(t *testing.T) {
	shell, _, out := setupShell(t, "help\n", time.Hour)

	require.NoError(t, shell.Run(context.Background()))
	assert.Contains(t, out.String(), "usage: todo")
}

func TestShell_MessageClearRefocusesPrompt(t *testing.T) {
	shell, _, out := setupShell(t, "", 10*time.Millisecond)

	r, w := io.Pipe()
	shell.in = r
	done := make(chan error, 1)
	go func() { done <- shell.Run(context.Background()) }()

	_, err := w.Write([]byte("complete 42\n"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), shellPrompt) >= 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "task not found: 42")

	require.NoError(t, w.Close())
	require.NoError(t, <-done)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"list", []string{"list"}},
		{"add  Buy   milk ", []string{"add", "Buy", "milk"}},
		{`add "Buy milk" now`, []string{"add", "Buy milk", "now"}},
		{`add ""`, []string{"add", ""}},
		{"sort\ttask", []string{"sort", "task"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, splitArgs(tt.line))
		})
	}
}
