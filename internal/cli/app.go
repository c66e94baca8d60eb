package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"todo-list/internal/config"
	"todo-list/internal/export"
	"todo-list/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	services *services.ServiceContainer
	config   *config.Config
	exporter *export.Exporter
	out      io.Writer
	registry *CommandRegistry
}

// NewAppWithOutput creates a new CLI application instance writing to out
func NewAppWithOutput(container *services.ServiceContainer, cfg *config.Config, out io.Writer) *App {
	app := &App{
		services: container,
		config:   cfg,
		exporter: export.NewExporter(),
		out:      out,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes a single command by name
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}
	return a.registry.Execute(ctx, strings.ToLower(args[0]), args[1:])
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}
