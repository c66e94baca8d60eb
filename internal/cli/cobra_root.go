package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"todo-list/internal/config"
	"todo-list/internal/logging"
	"todo-list/internal/repository"
	"todo-list/internal/server"
	"todo-list/internal/services"
)

// StoreOpener opens the key-value store described by the configuration
type StoreOpener func(cfg *config.Config) (repository.KeyValueStore, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	config     *config.Config
	openStore  StoreOpener
	httpClient *http.Client

	in  io.Reader
	out io.Writer

	store     repository.KeyValueStore
	container *services.ServiceContainer
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config, openStore StoreOpener) *RootCommand {
	root := &RootCommand{
		config:    cfg,
		openStore: openStore,
		in:        os.Stdin,
		out:       os.Stdout,
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line task list",
		Long: `todo keeps a list of short-lived tasks: add them, mark them complete,
filter, search and sort them. It can also fetch a random quote and remember a
light or dark display preference.

EXAMPLES:
  todo add "Buy milk"                  # Add a task
  todo complete 1709993100000          # Mark a task complete by ID
  todo list --status incomplete        # List tasks with a status
  todo search milk                     # Case-insensitive name search
  todo sort task                       # Sort by name; direction flips each time
  todo quote                           # Fetch a quote
  todo mode toggle                     # Switch between light and dark
  todo output format=json > tasks.json # Export tasks
  todo shell                           # Interactive session
  todo serve                           # HTTP API on :8080

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

  Storage:
    TODO_STORAGE_DRIVER                  sqlite, postgres, mysql or memory (default: sqlite)
    TODO_DB_DIR                          sqlite directory (default: ~/.todo)
    TODO_DB_FILENAME                     sqlite filename (default: todo.db)
    TODO_DB_DSN                          Data source name for postgres/mysql
    TODO_STORAGE_KEY                     Key holding the task list (default: tasks)

  Quote:
    TODO_QUOTE_URL                       Quotes endpoint
    TODO_QUOTE_TIMEOUT                   Request timeout (default: 10s)

  Display:
    TODO_TIME_DISPLAY_FORMAT             Creation date layout
    TODO_DISPLAY_MESSAGE_DURATION        How long shell messages stay (default: 2s)

  Application:
    TODO_APP_TIMEOUT                     Per-command timeout (default: 60s)
    TODO_APP_VERBOSE                     Debug output (default: false)
    TODO_DEBUG                           Debug output when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := root.getConfigFromFlags(); err != nil {
				return err
			}
			return root.openServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.Close()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO redirects the command's input and output, mainly for tests
func (r *RootCommand) SetIO(in io.Reader, out io.Writer) {
	r.in = in
	r.out = out
	r.cmd.SetIn(in)
	r.cmd.SetOut(out)
	r.cmd.SetErr(out)
}

// SetArgs sets the arguments the command will parse
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetHTTPClient sets the client used for quote requests
func (r *RootCommand) SetHTTPClient(client *http.Client) {
	r.httpClient = client
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.Close()
	return r.cmd.ExecuteContext(ctx)
}

// Close releases the store opened for the command, if any
func (r *RootCommand) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Storage configuration
	flags.String("storage-driver", "", "Storage driver: sqlite, postgres, mysql, memory (overrides TODO_STORAGE_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.String("db-dsn", "", "Database data source name (overrides TODO_DB_DSN)")
	flags.String("storage-key", "", "Key holding the task list (overrides TODO_STORAGE_KEY)")

	// Quote configuration
	flags.String("quote-url", "", "Quotes endpoint (overrides TODO_QUOTE_URL)")
	flags.Duration("quote-timeout", 0, "Quote request timeout (overrides TODO_QUOTE_TIMEOUT)")

	// Display configuration
	flags.String("time-format", "", "Creation date layout (overrides TODO_TIME_DISPLAY_FORMAT)")
	flags.Duration("message-duration", 0, "Shell message duration (overrides TODO_DISPLAY_MESSAGE_DURATION)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TODO_APP_VERBOSE)")

	// Server and commands configuration
	flags.String("server-address", "", "HTTP listen address (overrides TODO_SERVER_ADDRESS)")
	flags.String("output-format", "", "Default output format (overrides TODO_OUTPUT_DEFAULT_FORMAT)")
}

// run returns a RunE delegating to the registered command of the same name
func (r *RootCommand) run(name string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		return r.app().Run(ctx, append([]string{name}, args...))
	}
}

func (r *RootCommand) app() *App {
	return NewAppWithOutput(r.container, r.config, r.out)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	addCmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Add a task",
		Long:  "Add a new incomplete task. Surrounding whitespace is trimmed and the name must not be empty.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  r.run("add"),
	}

	completeCmd := &cobra.Command{
		Use:   "complete [id]",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run("complete"),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks in their current order.

Examples:
  todo list                     # All tasks
  todo list --status complete   # Only completed tasks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			if status != "" {
				args = []string{"--status", status}
			}
			return r.run("list")(cmd, args)
		},
	}
	listCmd.Flags().String("status", "", "Filter by status: all, incomplete, complete")

	searchCmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search tasks by name",
		Long:  "List tasks whose name contains the text, ignoring case. No text lists every task.",
		RunE:  r.run("search"),
	}

	sortCmd := &cobra.Command{
		Use:   "sort [date|task|status]",
		Short: "Sort tasks",
		Long: `Sort the task list by a column and save the new order.

The direction alternates on every sort, shared across all columns.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"date", "task", "status"},
		RunE:      r.run("sort"),
	}

	statusesCmd := &cobra.Command{
		Use:   "statuses",
		Short: "Show the statuses present among tasks",
		Args:  cobra.NoArgs,
		RunE:  r.run("statuses"),
	}

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a random quote",
		Args:  cobra.NoArgs,
		RunE:  r.run("quote"),
	}

	modeCmd := &cobra.Command{
		Use:       "mode [toggle]",
		Short:     "Show or toggle light/dark mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle"},
		RunE:      r.run("mode"),
	}

	outputCmd := &cobra.Command{
		Use:   "output format=csv|json|pdf",
		Short: "Export tasks in specified format",
		Long: `Export every task in the specified format.

Supported formats:
  csv  - Comma-separated values
  json - The stored record format
  pdf  - A printable table

Example:
  todo output format=pdf > tasks.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run("output"),
	}

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long:  "Read commands from standard input, keeping sort direction and quotes for the whole session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewShell(r.container, r.config, r.in, r.out).Run(cmd.Context())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if origins, _ := cmd.Flags().GetStringSlice("allowed-origin"); len(origins) > 0 {
				r.config.Server.AllowedOrigins = origins
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(r.out, "Listening on %s\n", r.config.Server.Address)
			return server.Serve(ctx, r.container, r.config.Server)
		},
	}
	serveCmd.Flags().StringSlice("allowed-origin", nil, "CORS allowed origin, repeatable (overrides TODO_SERVER_ALLOWED_ORIGINS)")

	r.cmd.AddCommand(
		addCmd,
		completeCmd,
		listCmd,
		searchCmd,
		sortCmd,
		statusesCmd,
		quoteCmd,
		modeCmd,
		outputCmd,
		shellCmd,
		serveCmd,
	)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}

// getConfigFromFlags updates the configuration with values from command-line flags
func (r *RootCommand) getConfigFromFlags() error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{
		StorageDriver:       changedString(flags, "storage-driver"),
		DBDir:               changedString(flags, "db-dir"),
		DBFilename:          changedString(flags, "db-filename"),
		DBDSN:               changedString(flags, "db-dsn"),
		StorageKey:          changedString(flags, "storage-key"),
		QuoteURL:            changedString(flags, "quote-url"),
		QuoteTimeout:        changedDuration(flags, "quote-timeout"),
		TimeFormat:          changedString(flags, "time-format"),
		MessageDuration:     changedDuration(flags, "message-duration"),
		Timeout:             changedDuration(flags, "app-timeout"),
		ServerAddress:       changedString(flags, "server-address"),
		OutputDefaultFormat: changedString(flags, "output-format"),
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}

	config.ApplyOverrides(r.config, overrides)

	if err := r.config.Validate(); err != nil {
		return err
	}
	logging.Enable(r.config.Application.Verbose)
	return nil
}

// changedString returns the flag value only if it was set on the command line
func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}

func changedDuration(flags *pflag.FlagSet, name string) *time.Duration {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetDuration(name)
	return &v
}

// openServices opens the store and loads persisted state once per invocation
func (r *RootCommand) openServices(ctx context.Context) error {
	if r.container != nil {
		return nil
	}
	if r.openStore == nil {
		return fmt.Errorf("storage not configured")
	}

	store, err := r.openStore(r.config)
	if err != nil {
		return NewErrorHandler().Handle("open storage", err)
	}
	r.store = store
	r.container = services.NewServiceContainer(store, r.config, r.httpClient)

	loadCtx, cancel := context.WithTimeout(ctx, r.getAppTimeout())
	defer cancel()
	if err := r.container.Initialize(loadCtx); err != nil {
		return NewErrorHandler().Handle("load tasks", err)
	}
	return nil
}
