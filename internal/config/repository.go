package config

import (
	"fmt"
	"os"

	"todo-list/internal/repository"
	"todo-list/internal/repository/memory"
	"todo-list/internal/repository/sqlkv"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from TODO_ENV
func GetEnvironment() Environment {
	switch os.Getenv("TODO_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}

// CreateStore creates the key-value store for the configured driver
func CreateStore(config *Config) (repository.KeyValueStore, error) {
	if config.Storage.Driver == DriverMemory {
		return memory.New(), nil
	}

	if config.Storage.Driver == DriverSQLite && config.Storage.DSN == "" {
		if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", config.Storage.Dir, err)
		}
	}

	store, err := sqlkv.NewWithOptions(config.Storage.Driver, config.GetDataSource(), sqlkv.Options{
		QueryTimeout: config.GetQueryTimeout(),
		WriteTimeout: config.GetWriteTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return store, nil
}

// CreateStoreForEnvironment picks storage by environment: an in-memory sqlite
// database for testing, ./todo.db for development and the configured store otherwise.
func CreateStoreForEnvironment(env Environment, config *Config) (repository.KeyValueStore, error) {
	switch env {
	case Testing:
		return CreateTestStore()
	case Development:
		store, err := sqlkv.New(DriverSQLite, "todo.db")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize development database: %w", err)
		}
		return store, nil
	default:
		return CreateStore(config)
	}
}

// CreateTestStore creates an in-memory sqlite store for testing
func CreateTestStore() (repository.KeyValueStore, error) {
	store, err := sqlkv.New(DriverSQLite, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return store, nil
}
