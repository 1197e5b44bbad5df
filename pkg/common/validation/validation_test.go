package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/firengo/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"positive value 1", 1, false},
		{"zero value", 0, true},
		{"negative value", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "count", tt.value)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("config", "workers", 0); err != nil {
		t.Errorf("zero should be accepted, got %v", err)
	}
	if err := ValidateNonNegative("config", "workers", -3); !errors.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration("scheduler", "interval", time.Second); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePositiveDuration("scheduler", "interval", 0); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestValidateNotNil(t *testing.T) {
	var nilFunc func()
	var nilPtr *int

	tests := []struct {
		name      string
		value     interface{}
		wantError bool
	}{
		{"nil interface", nil, true},
		{"typed nil func", nilFunc, true},
		{"typed nil pointer", nilPtr, true},
		{"func", func() {}, false},
		{"string", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotNil("dispatch", "work", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("err = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	err := ValidateNotEmpty("scheduler", "name", "")
	if err == nil {
		t.Fatal("expected error for empty string")
	}
	if !strings.Contains(err.Error(), "provide a non-empty name") {
		t.Errorf("hint missing from %q", err.Error())
	}
	if err := ValidateNotEmpty("scheduler", "name", "heartbeat"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateMaxLength(t *testing.T) {
	if err := ValidateMaxLength("scheduler", "name", strings.Repeat("a", 256), 255); err == nil {
		t.Error("expected error for long value")
	}
	if err := ValidateMaxLength("scheduler", "name", "ok", 255); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
