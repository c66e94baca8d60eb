package validation

import (
	"testing"

	"todo-list/internal/domain"
)

func TestTaskValidator_ValidateTaskName(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"Valid name", "Buy milk", false},
		{"Empty name", "", true},
		{"Whitespace only", "   ", true},
		{"Tabs and newlines", "\t\n", true},
		{"Symbols are fine", "Task@#$%", false},
		{"Leading spaces", "  walk dog", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTaskName(tt.input)

			if !tt.expectError {
				if err != nil {
					t.Errorf("ValidateTaskName(%q) expected no error but got %v", tt.input, err)
				}
				return
			}

			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateTaskName(%q) expected ValidationError but got %T", tt.input, err)
			}
			if validationErr.Errors[0].Type != ErrorTypeRequired {
				t.Errorf("expected error type %v but got %v", ErrorTypeRequired, validationErr.Errors[0].Type)
			}
			if got := validationErr.GetUserFriendlyMessage(); got != EmptyTaskMessage {
				t.Errorf("GetUserFriendlyMessage() = %q, expected %q", got, EmptyTaskMessage)
			}
		})
	}
}

func TestTaskValidator_GetValidTaskName(t *testing.T) {
	validator := NewTaskValidator()

	got, err := validator.GetValidTaskName("  Buy milk  ")
	if err != nil {
		t.Fatalf("GetValidTaskName() unexpected error: %v", err)
	}
	if got != "Buy milk" {
		t.Errorf("GetValidTaskName() = %q, expected %q", got, "Buy milk")
	}

	if _, err := validator.GetValidTaskName(" "); err == nil {
		t.Error("GetValidTaskName(\" \") expected error but got nil")
	}
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	validator := NewTaskValidator()

	if err := validator.ValidateTaskID(1700000000000); err != nil {
		t.Errorf("ValidateTaskID() unexpected error: %v", err)
	}
	for _, id := range []int64{0, -5} {
		if err := validator.ValidateTaskID(id); err == nil {
			t.Errorf("ValidateTaskID(%d) expected error but got nil", id)
		}
	}
}

func TestTaskValidator_ParseTaskID(t *testing.T) {
	validator := NewTaskValidator()

	id, err := validator.ParseTaskID(" 1700000000123 ")
	if err != nil || id != 1700000000123 {
		t.Errorf("ParseTaskID() = %d, %v, expected 1700000000123, nil", id, err)
	}

	for _, raw := range []string{"", "abc", "0", "-1", "1.5"} {
		if _, err := validator.ParseTaskID(raw); err == nil {
			t.Errorf("ParseTaskID(%q) expected error but got nil", raw)
		}
	}
}

func TestTaskValidator_ParseStatusFilter(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		input       string
		expectNil   bool
		expected    domain.Status
		expectError bool
	}{
		{"", true, 0, false},
		{"all", true, 0, false},
		{"ALL", true, 0, false},
		{"Complete", false, domain.StatusComplete, false},
		{"incomplete", false, domain.StatusIncomplete, false},
		{"1", false, domain.StatusComplete, false},
		{"done", false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := validator.ParseStatusFilter(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("ParseStatusFilter(%q) expected error but got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatusFilter(%q) unexpected error: %v", tt.input, err)
			}
			if tt.expectNil {
				if got != nil {
					t.Errorf("ParseStatusFilter(%q) = %v, expected nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.expected {
				t.Errorf("ParseStatusFilter(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTaskValidator_ParseSortField(t *testing.T) {
	validator := NewTaskValidator()

	field, err := validator.ParseSortField("Task")
	if err != nil || field != domain.SortByName {
		t.Errorf("ParseSortField(Task) = %q, %v, expected %q", field, err, domain.SortByName)
	}

	_, err = validator.ParseSortField("priority")
	if !IsValidationError(err) {
		t.Errorf("ParseSortField(priority) expected ValidationError but got %v", err)
	}
}
