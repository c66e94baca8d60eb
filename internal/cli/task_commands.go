package cli

import (
	"context"
	"strings"

	"todo-list/internal/errors"
	"todo-list/internal/services"
	"todo-list/internal/validation"
)

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute adds a task named by the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.services.TaskService.AddTask(ctx, strings.Join(args, " "))
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	c.app.printf("Added task %d: %s\n", task.ID, task.Name)
	return nil
}

// CompleteCommand handles the complete command
type CompleteCommand struct {
	app          *App
	validator    *validation.TaskValidator
	errorHandler *ErrorHandler
}

// NewCompleteCommand creates a new complete command handler
func NewCompleteCommand(app *App) *CompleteCommand {
	return &CompleteCommand{
		app:          app,
		validator:    validation.NewTaskValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute marks the task with the given ID complete
func (c *CompleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "complete", "usage: todo complete <id>")
	}
	id, err := c.validator.ParseTaskID(args[0])
	if err != nil {
		return c.errorHandler.Handle("complete task", err)
	}

	task, err := c.app.services.TaskService.CompleteTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("complete task", err)
	}
	c.app.printf("Completed task: %s\n", task.Name)
	return nil
}

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	validator    *validation.TaskValidator
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{
		app:          app,
		validator:    validation.NewTaskValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute lists tasks, optionally filtered by status. Accepts "complete",
// "--status complete" and "--status=complete".
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	filter := ""
	switch {
	case len(args) == 0:
	case len(args) == 1 && strings.HasPrefix(args[0], "--status="):
		filter = strings.TrimPrefix(args[0], "--status=")
	case len(args) == 2 && args[0] == "--status":
		filter = args[1]
	case len(args) == 1:
		filter = args[0]
	default:
		return errors.NewInvalidInputError("command", "list", "usage: todo list [--status incomplete|complete]")
	}

	status, err := c.validator.ParseStatusFilter(filter)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}

	tasks := c.app.services.TaskService.Tasks()
	if status != nil {
		tasks = c.app.services.TaskService.FilterByStatus(*status)
	}
	return printTasks(c.app.out, tasks)
}

// SearchCommand handles the search command
type SearchCommand struct {
	app *App
}

// NewSearchCommand creates a new search command handler
func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{app: app}
}

// Execute lists tasks whose name contains the joined arguments
func (c *SearchCommand) Execute(ctx context.Context, args []string) error {
	return printTasks(c.app.out, c.app.services.TaskService.SearchByName(strings.Join(args, " ")))
}

// SortCommand handles the sort command
type SortCommand struct {
	app          *App
	validator    *validation.TaskValidator
	errorHandler *ErrorHandler
}

// NewSortCommand creates a new sort command handler
func NewSortCommand(app *App) *SortCommand {
	return &SortCommand{
		app:          app,
		validator:    validation.NewTaskValidator(),
		errorHandler: NewErrorHandler(),
	}
}

// Execute sorts on the named column using the shared direction toggle
func (c *SortCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "sort", "usage: todo sort <date|task|status>")
	}
	field, err := c.validator.ParseSortField(args[0])
	if err != nil {
		return c.errorHandler.Handle("sort tasks", err)
	}

	tasks, err := c.app.services.TaskService.SortNext(ctx, field)
	if err != nil {
		return c.errorHandler.Handle("sort tasks", err)
	}
	return printTasks(c.app.out, tasks)
}

// StatusesCommand handles the statuses command
type StatusesCommand struct {
	app *App
}

// NewStatusesCommand creates a new statuses command handler
func NewStatusesCommand(app *App) *StatusesCommand {
	return &StatusesCommand{app: app}
}

// Execute prints the statuses that can be filtered on
func (c *StatusesCommand) Execute(ctx context.Context, args []string) error {
	options := c.app.services.TaskService.StatusOptions()
	if len(options) == 0 {
		c.app.println("No statuses yet")
		return nil
	}
	for _, s := range options {
		c.app.println(s.String())
	}
	return nil
}

// QuoteCommand handles the quote command
type QuoteCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewQuoteCommand creates a new quote command handler
func NewQuoteCommand(app *App) *QuoteCommand {
	return &QuoteCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute fetches and prints a quote, colored in dark mode
func (c *QuoteCommand) Execute(ctx context.Context, args []string) error {
	svc := c.app.services
	quote, err := svc.QuoteBoard.Refresh(ctx, svc.QuoteService)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	text := quote.Text
	if color := svc.ModeService.Appearance().QuoteColor; color != "" {
		text = colorize(text, color)
	}
	c.app.println(text)
	return nil
}

// ModeCommand handles the mode command
type ModeCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewModeCommand creates a new mode command handler
func NewModeCommand(app *App) *ModeCommand {
	return &ModeCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints the display mode, flipping it first for "toggle"
func (c *ModeCommand) Execute(ctx context.Context, args []string) error {
	mode := c.app.services.ModeService
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "toggle":
		if _, err := mode.Toggle(ctx); err != nil {
			return c.errorHandler.Handle("toggle mode", err)
		}
	default:
		return errors.NewInvalidInputError("command", "mode", "usage: todo mode [toggle]")
	}

	c.app.printf("Mode: %s\n", describeMode(mode.Appearance()))
	return nil
}

func describeMode(a services.Appearance) string {
	if a.ContainerClass == "" {
		return string(a.Mode)
	}
	return string(a.Mode) + " (" + a.ContainerClass + ", quote color " + a.QuoteColor + ")"
}
