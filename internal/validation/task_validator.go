package validation

import (
	"strings"

	"todo-list/internal/domain"
)

// EmptyTaskMessage is shown when a task is submitted without a name
const EmptyTaskMessage = "Task cannot be empty!"

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTaskName validates a task name for creation
func (tv *TaskValidator) ValidateTaskName(name string) error {
	if !tv.validator.IsNonEmptyString(name) {
		validationError := NewValidationError()
		validationError.AddRequiredError("task_name", EmptyTaskMessage)
		return validationError
	}
	return nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ParseTaskID parses a task ID typed by a user or taken from a URL
func (tv *TaskValidator) ParseTaskID(raw string) (int64, error) {
	id, ok := tv.validator.ParseTaskID(raw)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("task_id", raw, "positive integer")
		return 0, validationError
	}
	return id, nil
}

// ParseStatusFilter maps a filter value onto a status. "all" and ""
// mean no filter and return nil.
func (tv *TaskValidator) ParseStatusFilter(raw string) (*domain.Status, error) {
	cleaned := tv.validator.TrimAndValidateString(raw)
	if cleaned == "" || strings.EqualFold(cleaned, "all") {
		return nil, nil
	}
	status, err := domain.ParseStatus(cleaned)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", raw, "must be one of all, incomplete, complete")
		return nil, validationError
	}
	return &status, nil
}

// ParseSortField validates a sort column name
func (tv *TaskValidator) ParseSortField(raw string) (domain.SortField, error) {
	field, err := domain.ParseSortField(raw)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("sort_field", raw, "must be one of date, task, status")
		return "", validationError
	}
	return field, nil
}

// GetValidTaskName returns a cleaned task name if valid
func (tv *TaskValidator) GetValidTaskName(name string) (string, error) {
	if err := tv.ValidateTaskName(name); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(name), nil
}
