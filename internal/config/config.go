package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Supported storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Config holds all configuration options for the todo application
type Config struct {
	Storage     StorageConfig
	Quote       QuoteConfig
	Display     DisplayConfig
	Application ApplicationConfig
	Server      ServerConfig
	Commands    CommandsConfig
}

// StorageConfig holds key-value store configuration
type StorageConfig struct {
	Driver         string        `env:"TODO_STORAGE_DRIVER"`
	Dir            string        `env:"TODO_DB_DIR"`
	Filename       string        `env:"TODO_DB_FILENAME"`
	DSN            string        `env:"TODO_DB_DSN"`
	Key            string        `env:"TODO_STORAGE_KEY"`
	QueryTimeout   time.Duration `env:"TODO_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TODO_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TODO_DB_DIR_PERMISSIONS"`
}

// QuoteConfig holds quote service configuration
type QuoteConfig struct {
	URL     string        `env:"TODO_QUOTE_URL"`
	Timeout time.Duration `env:"TODO_QUOTE_TIMEOUT"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat      string        `env:"TODO_TIME_DISPLAY_FORMAT"`
	MessageDuration time.Duration `env:"TODO_DISPLAY_MESSAGE_DURATION"`
	DarkQuoteColor  string        `env:"TODO_DISPLAY_DARK_QUOTE_COLOR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TODO_APP_TIMEOUT"`
	Verbose bool          `env:"TODO_APP_VERBOSE"`
}

// ServerConfig holds HTTP surface configuration
type ServerConfig struct {
	Address        string   `env:"TODO_SERVER_ADDRESS"`
	AllowedOrigins []string `env:"TODO_SERVER_ALLOWED_ORIGINS"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	OutputDefaultFormat string `env:"TODO_OUTPUT_DEFAULT_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".todo")

	return &Config{
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			Dir:            defaultDBDir,
			Filename:       "todo.db",
			Key:            "tasks",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Quote: QuoteConfig{
			URL:     "https://ron-swanson-quotes.herokuapp.com/v2/quotes",
			Timeout: 10 * time.Second,
		},
		Display: DisplayConfig{
			TimeFormat:      "1/2/2006, 3:04:05 PM",
			MessageDuration: 2 * time.Second,
			DarkQuoteColor:  "#fdcb6e",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Server: ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},
		Commands: CommandsConfig{
			OutputDefaultFormat: "csv",
		},
	}
}

// GetDatabasePath returns the full path to the sqlite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// GetDataSource returns the data source name for the configured driver
func (c *Config) GetDataSource() string {
	if c.Storage.Driver == DriverSQLite && c.Storage.DSN == "" {
		return c.GetDatabasePath()
	}
	return c.Storage.DSN
}

// GetQueryTimeout returns the storage read timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Storage.QueryTimeout
}

// GetWriteTimeout returns the storage write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if driver := os.Getenv("TODO_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = strings.ToLower(driver)
	}
	if dir := os.Getenv("TODO_DB_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TODO_DB_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if dsn := os.Getenv("TODO_DB_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	}
	if key := os.Getenv("TODO_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if timeout := os.Getenv("TODO_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("TODO_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TODO_DB_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Quote configuration
	if url := os.Getenv("TODO_QUOTE_URL"); url != "" {
		c.Quote.URL = url
	}
	if timeout := os.Getenv("TODO_QUOTE_TIMEOUT"); timeout != "" {
		c.Quote.Timeout = ParseDurationWithFallback(timeout, c.Quote.Timeout)
	}

	// Display configuration
	if format := os.Getenv("TODO_TIME_DISPLAY_FORMAT"); format != "" {
		c.Display.TimeFormat = format
	}
	if d := os.Getenv("TODO_DISPLAY_MESSAGE_DURATION"); d != "" {
		c.Display.MessageDuration = ParseDurationWithFallback(d, c.Display.MessageDuration)
	}
	if color := os.Getenv("TODO_DISPLAY_DARK_QUOTE_COLOR"); color != "" {
		c.Display.DarkQuoteColor = color
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TODO_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	// Server configuration
	if addr := os.Getenv("TODO_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if origins := os.Getenv("TODO_SERVER_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	// Commands configuration
	if format := os.Getenv("TODO_OUTPUT_DEFAULT_FORMAT"); format != "" {
		c.Commands.OutputDefaultFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DSN == "" && c.Storage.Dir == "" {
			return &ConfigError{Field: "storage.dir", Message: "database directory cannot be empty"}
		}
		if c.Storage.DSN == "" && c.Storage.Filename == "" {
			return &ConfigError{Field: "storage.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres, DriverMySQL:
		if c.Storage.DSN == "" {
			return &ConfigError{Field: "storage.dsn", Message: "a DSN is required for the " + c.Storage.Driver + " driver"}
		}
	case DriverMemory:
	default:
		return &ConfigError{Field: "storage.driver", Message: "unsupported storage driver: " + c.Storage.Driver}
	}
	if c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "storage key cannot be empty"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate quote configuration
	if c.Quote.URL == "" {
		return &ConfigError{Field: "quote.url", Message: "quote URL cannot be empty"}
	}
	if c.Quote.Timeout <= 0 {
		return &ConfigError{Field: "quote.timeout", Message: "quote timeout must be positive"}
	}

	// Validate display configuration
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}
	if c.Display.MessageDuration <= 0 {
		return &ConfigError{Field: "display.message_duration", Message: "message duration must be positive"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	if c.Server.Address == "" {
		return &ConfigError{Field: "server.address", Message: "server address cannot be empty"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
