// Package formerr defines the error categories shared by the form core.
//
// No category is fatal: validation failures are shown inline, storage failures
// turn draft features into no-ops and malformed drafts are treated as absent.
package formerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeValidation indicates a user-correctable field error
	ErrTypeValidation ErrorType = iota
	// ErrTypeStorageUnavailable indicates the durable draft store cannot be used
	ErrTypeStorageUnavailable
	// ErrTypeMalformedDraft indicates stored draft data could not be decoded
	ErrTypeMalformedDraft
	// ErrTypeConfig indicates an unreadable or invalid configuration file
	ErrTypeConfig
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeStorageUnavailable:
		return "Storage Unavailable"
	case ErrTypeMalformedDraft:
		return "Malformed Draft"
	case ErrTypeConfig:
		return "Config Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is a categorized form error.
type Error struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Field   string    // Field role for validation errors
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error for one field
func NewValidationError(field, message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
		Field:   field,
	}
}

// NewStorageError creates a storage-unavailable error
func NewStorageError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeStorageUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewMalformedDraftError creates a malformed-draft error
func NewMalformedDraftError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeMalformedDraft,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeConfig,
		Message: message,
		Err:     err,
	}
}

func typeOf(err error) (ErrorType, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Type, true
	}
	return ErrTypeUnknown, false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeValidation
}

// IsStorageUnavailable checks if an error means the draft store is unusable
func IsStorageUnavailable(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeStorageUnavailable
}

// IsMalformedDraft checks if an error is a malformed-draft error
func IsMalformedDraft(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeMalformedDraft
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeConfig
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return err.Error()
	}

	switch fe.Type {
	case ErrTypeValidation:
		return fe.Message
	case ErrTypeStorageUnavailable:
		return "Drafts unavailable - the form still works"
	case ErrTypeMalformedDraft:
		return "Saved draft is unreadable and was ignored"
	case ErrTypeConfig:
		return "Config file problem - using defaults"
	default:
		return fe.Message
	}
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return "An unexpected error occurred. Please try again."
	}

	switch fe.Type {
	case ErrTypeStorageUnavailable:
		return strings.Join([]string{
			"The draft store could not be opened or written.",
			"Troubleshooting:",
			"  • Check that the draft directory exists and is writable",
			"  • Another contactform process may hold the pebble lock",
			"  • Switch backend with --draft-backend file or memory",
		}, "\n")

	case ErrTypeMalformedDraft:
		return strings.Join([]string{
			"The stored draft could not be decoded.",
			"Troubleshooting:",
			"  • Run 'contactform draft clear' to remove it",
			"  • The form ignores it and starts empty",
		}, "\n")

	case ErrTypeConfig:
		return strings.Join([]string{
			"The configuration file could not be used.",
			"Troubleshooting:",
			"  • Run 'contactform config path' to locate it",
			"  • Run 'contactform config init' to write a fresh default",
		}, "\n")

	case ErrTypeValidation:
		return "Correct the highlighted field and try again."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
