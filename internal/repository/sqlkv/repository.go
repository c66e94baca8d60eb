package sqlkv

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todo-list/internal/errors"
	"todo-list/internal/repository"
	"todo-list/internal/repository/sqlkv/migrations"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect holds the SQL that differs between drivers
type Dialect struct {
	Name       string
	DriverName string
	SelectSQL  string
	UpsertSQL  string
}

var dialects = map[string]Dialect{
	"sqlite": {
		Name:       "sqlite",
		DriverName: "sqlite",
		SelectSQL:  `SELECT item_value FROM kv_store WHERE item_key = ?`,
		UpsertSQL: `
	INSERT INTO kv_store (item_key, item_value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
	},
	"postgres": {
		Name:       "postgres",
		DriverName: "postgres",
		SelectSQL:  `SELECT item_value FROM kv_store WHERE item_key = $1`,
		UpsertSQL: `
	INSERT INTO kv_store (item_key, item_value, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (item_key) DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = EXCLUDED.updated_at`,
	},
	"mysql": {
		Name:       "mysql",
		DriverName: "mysql",
		SelectSQL:  "SELECT item_value FROM kv_store WHERE item_key = ?",
		UpsertSQL: `
	INSERT INTO kv_store (item_key, item_value, updated_at)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE item_value = VALUES(item_value), updated_at = VALUES(updated_at)`,
	},
}

// LookupDialect returns the dialect registered under name
func LookupDialect(name string) (Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported dialect: %s", name)
	}
	return d, nil
}

// Options tunes a Repository
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// Repository is a KeyValueStore backed by a single SQL table
type Repository struct {
	db      *sql.DB
	dialect Dialect
	opts    Options
	now     func() time.Time
}

var _ repository.KeyValueStore = (*Repository)(nil)

// New opens dsn with the named dialect and runs migrations
func New(dialectName, dsn string) (*Repository, error) {
	return NewWithOptions(dialectName, dsn, Options{})
}

// NewWithOptions opens dsn with the named dialect, applies opts and runs migrations
func NewWithOptions(dialectName, dsn string, opts Options) (*Repository, error) {
	dialect, err := LookupDialect(dialectName)
	if err != nil {
		return nil, errors.NewInvalidInputError("storage.driver", dialectName, err.Error())
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}

	// sqlite is single-writer and ":memory:" is per connection
	if dialect.Name == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewStorageError("connect database", err)
	}

	if err := migrations.RunMigrations(db, dialect.Name); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &Repository{db: db, dialect: dialect, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Get returns the value stored under key
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := withTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	return QueryValue(ctx, r.db, r.dialect.SelectSQL, "get "+key, key)
}

// Set overwrites the value stored under key
func (r *Repository) Set(ctx context.Context, key, value string) error {
	ctx, cancel := withTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	return Execute(ctx, r.db, r.dialect.UpsertSQL, "set "+key, key, value, r.now().UTC())
}
