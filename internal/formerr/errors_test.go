package formerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestErrorTypeString tests error type string names
func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeStorageUnavailable, "Storage Unavailable"},
		{ErrTypeMalformedDraft, "Malformed Draft"},
		{ErrTypeConfig, "Config Error"},
		{ErrTypeUnknown, "Unknown Error"},
		{ErrorType(99), "ErrorType(99)"},
	}
	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write draft", cause)

	if !strings.Contains(err.Error(), "Storage Unavailable: failed to write draft") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() should mention cause, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}

	plain := NewValidationError("name", "Name is required.")
	if plain.Error() != "Validation Error: Name is required." {
		t.Errorf("Error() = %q", plain.Error())
	}
}

// TestPredicatesThroughWrapping checks the Is* helpers see wrapped errors
func TestPredicatesThroughWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", NewValidationError("email", "bad"), IsValidationError},
		{"storage", fmt.Errorf("save: %w", NewStorageError("x", nil)), IsStorageUnavailable},
		{"malformed", fmt.Errorf("restore: %w", NewMalformedDraftError("x", nil)), IsMalformedDraft},
		{"config", NewConfigError("x", nil), IsConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.is(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
		})
	}

	if IsStorageUnavailable(errors.New("plain")) {
		t.Error("plain errors are not storage errors")
	}
	if IsMalformedDraft(nil) {
		t.Error("nil is not a malformed draft error")
	}
}

func TestShortMessage(t *testing.T) {
	if got := ShortMessage(NewValidationError("name", "Name is required.")); got != "Name is required." {
		t.Errorf("ShortMessage(validation) = %q", got)
	}
	if got := ShortMessage(NewStorageError("x", nil)); !strings.Contains(got, "form still works") {
		t.Errorf("ShortMessage(storage) = %q", got)
	}
	if got := ShortMessage(errors.New("boom")); got != "boom" {
		t.Errorf("ShortMessage(plain) = %q", got)
	}
}

func TestTroubleshootingHint(t *testing.T) {
	hint := TroubleshootingHint(NewMalformedDraftError("x", nil))
	if !strings.Contains(hint, "draft clear") {
		t.Errorf("hint should suggest clearing the draft: %q", hint)
	}
	if got := TroubleshootingHint(errors.New("x")); !strings.Contains(got, "unexpected") {
		t.Errorf("hint for plain error = %q", got)
	}
}
