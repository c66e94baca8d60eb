package cli

import (
	"context"
	"strings"

	"todo-list/internal/errors"
	"todo-list/internal/export"
)

// OutputCommand handles the output command
type OutputCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewOutputCommand creates a new output command handler
func NewOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the output command
func (c *OutputCommand) Execute(ctx context.Context, args []string) error {
	return c.outputTasks(ctx, args)
}

// outputTasks writes every task in the requested format. Without an
// argument the configured default format is used.
func (c *OutputCommand) outputTasks(ctx context.Context, args []string) error {
	raw := ""
	if c.app.config != nil {
		raw = c.app.config.Commands.OutputDefaultFormat
	}

	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "output", "usage: todo output format=csv|json|pdf")
	}
	if len(args) == 1 {
		if !strings.HasPrefix(args[0], "format=") {
			return errors.NewInvalidInputError("format", args[0], "invalid format option")
		}
		raw = strings.TrimPrefix(args[0], "format=")
	}

	format, err := export.ParseFormat(raw)
	if err != nil {
		return err
	}

	if err := c.app.exporter.Export(c.app.out, c.app.services.TaskService.Tasks(), format); err != nil {
		return c.errorHandler.Handle("export tasks", err)
	}
	return nil
}
