package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrClosed", ErrClosed, "resource is closed"},
		{"ErrUnavailable", ErrUnavailable, "resource is unavailable"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err: &ValidationError{
				Module: "workerpool",
				Field:  "task",
				Value:  nil,
				Reason: "cannot be nil",
			},
			want: "workerpool: invalid task=<nil> (cannot be nil)",
		},
		{
			name: "with hint",
			err: &ValidationError{
				Module: "scheduler",
				Field:  "interval",
				Value:  0,
				Reason: "must be positive",
				Hint:   "value must be greater than 0",
			},
			want: "scheduler: invalid interval=0 (must be positive) - value must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	verr := NewValidationError("config", "workers", -1, "cannot be negative")

	if !errors.Is(verr, ErrInvalidConfiguration) {
		t.Error("ValidationError should wrap ErrInvalidConfiguration")
	}

	wrapped := fmt.Errorf("load: %w", verr)
	if !IsValidationError(wrapped) {
		t.Error("IsValidationError should see through wrapping")
	}
	if IsValidationError(ErrClosed) {
		t.Error("ErrClosed is not a validation error")
	}
}

func TestIsClosed(t *testing.T) {
	if !IsClosed(fmt.Errorf("submit: %w", ErrClosed)) {
		t.Error("wrapped ErrClosed should be reported as closed")
	}
	if !IsClosed(ErrUnavailable) {
		t.Error("ErrUnavailable should be reported as closed")
	}
	if IsClosed(ErrInvalidConfiguration) {
		t.Error("ErrInvalidConfiguration is not a closed error")
	}
}
