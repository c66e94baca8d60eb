package cli

import (
	"context"
	"sort"
	"strings"

	"todo-list/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("add", NewAddCommand(app))
	registry.Register("complete", NewCompleteCommand(app))
	registry.Register("list", NewListCommand(app))
	registry.Register("search", NewSearchCommand(app))
	registry.Register("sort", NewSortCommand(app))
	registry.Register("statuses", NewStatusesCommand(app))
	registry.Register("quote", NewQuoteCommand(app))
	registry.Register("mode", NewModeCommand(app))
	registry.Register("output", NewOutputCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Names returns the registered command names in alphabetical order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	return "usage: todo " + strings.Join([]string{
		`add "task name"`,
		"complete <id>",
		"list [--status incomplete|complete]",
		"search <text>",
		"sort <date|task|status>",
		"statuses",
		"quote",
		"mode [toggle]",
		"output format=csv|json|pdf",
	}, " | ")
}
