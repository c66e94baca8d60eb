package config

import (
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with environment variables
// 3. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		ApplyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	StorageDriver *string
	DBDir         *string
	DBFilename    *string
	DBDSN         *string
	StorageKey    *string

	// Quote overrides
	QuoteURL     *string
	QuoteTimeout *time.Duration

	// Display overrides
	TimeFormat      *string
	MessageDuration *time.Duration

	// Application overrides
	Timeout *time.Duration
	Verbose *bool

	// Server overrides
	ServerAddress *string

	// Commands overrides
	OutputDefaultFormat *string
}

// ApplyOverrides applies command line overrides to the configuration
func ApplyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.StorageDriver != nil {
		config.Storage.Driver = *overrides.StorageDriver
	}
	if overrides.DBDir != nil {
		config.Storage.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Storage.Filename = *overrides.DBFilename
	}
	if overrides.DBDSN != nil {
		config.Storage.DSN = *overrides.DBDSN
	}
	if overrides.StorageKey != nil {
		config.Storage.Key = *overrides.StorageKey
	}

	if overrides.QuoteURL != nil {
		config.Quote.URL = *overrides.QuoteURL
	}
	if overrides.QuoteTimeout != nil {
		config.Quote.Timeout = *overrides.QuoteTimeout
	}

	if overrides.TimeFormat != nil {
		config.Display.TimeFormat = *overrides.TimeFormat
	}
	if overrides.MessageDuration != nil {
		config.Display.MessageDuration = *overrides.MessageDuration
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}

	if overrides.ServerAddress != nil {
		config.Server.Address = *overrides.ServerAddress
	}

	if overrides.OutputDefaultFormat != nil {
		config.Commands.OutputDefaultFormat = *overrides.OutputDefaultFormat
	}
}
