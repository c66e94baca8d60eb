package cli

import (
	"errors"
	"fmt"
	"testing"

	apperrors "todo-list/internal/errors"
	"todo-list/internal/validation"
)

func emptyTaskError() error {
	ve := validation.NewValidationError()
	ve.AddRequiredError("task_name", validation.EmptyTaskMessage)
	return apperrors.NewValidationError("empty task", ve)
}

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error with field detail",
			operation: "add task",
			err:       emptyTaskError(),
			expected:  "failed to add task: Task cannot be empty!",
		},
		{
			name:      "Not found error",
			operation: "complete task",
			err:       apperrors.NewNotFoundError("task", "123"),
			expected:  "failed to complete task: task not found: 123",
		},
		{
			name:      "Storage error",
			operation: "add task",
			err:       apperrors.NewStorageError("save tasks", errors.New("disk full")),
			expected:  "failed to add task: Tasks could not be saved or loaded. Please try again.",
		},
		{
			name:      "Wrapped validation error",
			operation: "list tasks",
			err:       fmt.Errorf("outer: %w", emptyTaskError()),
			expected:  "failed to list tasks: Task cannot be empty!",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleNil(t *testing.T) {
	eh := NewErrorHandler()

	if err := eh.Handle("anything", nil); err != nil {
		t.Errorf("Handle(nil) = %v, want nil", err)
	}
	if err := eh.HandleSimple(nil); err != nil {
		t.Errorf("HandleSimple(nil) = %v, want nil", err)
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Validation error", emptyTaskError(), "Task cannot be empty!"},
		{"Network error", apperrors.NewHTTPStatusError("http://quotes.test", 503), "Response status: 503"},
		{"Timeout error", apperrors.NewTimeoutError("fetch", "1s"), "The operation timed out. Please try again."},
		{"Regular error", errors.New("regular error"), "regular error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.HandleSimple(tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.HandleSimple() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}
