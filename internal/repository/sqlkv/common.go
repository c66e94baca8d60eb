package sqlkv

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"todo-list/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, err.Error())
	}
	return errors.NewStorageError(operation, err)
}

// withTimeout bounds ctx by d when d is positive
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// QueryValue executes a query that returns a single string column.
// A missing row is reported as ok == false, not as an error.
func QueryValue(ctx context.Context, db *sql.DB, query string, operation string, args ...interface{}) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, HandleDatabaseError(operation, err)
	}
	return value, true, nil
}

// Execute executes a statement that returns no rows
func Execute(ctx context.Context, db *sql.DB, query string, operation string, args ...interface{}) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return HandleDatabaseError(operation, err)
	}
	return nil
}
