package form

import (
	"fmt"

	"github.com/muurk/contactform/internal/validation"
)

// FieldState is the visual state of a single field.
type FieldState int

const (
	FieldNeutral FieldState = iota
	FieldValid
	FieldInvalid
)

func (s FieldState) String() string {
	switch s {
	case FieldNeutral:
		return "neutral"
	case FieldValid:
		return "valid"
	case FieldInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("FieldState(%d)", int(s))
	}
}

// DraftEvent is a draft status change shown next to the draft controls.
type DraftEvent int

const (
	DraftEventIdle DraftEvent = iota
	DraftEventSaved
	DraftEventCleared
	DraftEventAutoSaved
	DraftEventRestored
)

func (e DraftEvent) String() string {
	switch e {
	case DraftEventIdle:
		return "idle"
	case DraftEventSaved:
		return "saved"
	case DraftEventCleared:
		return "cleared"
	case DraftEventAutoSaved:
		return "autosaved"
	case DraftEventRestored:
		return "restored"
	default:
		return fmt.Sprintf("DraftEvent(%d)", int(e))
	}
}

// Theme is the presentation color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark"; anything else is light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Surface receives every presentation update from a Controller. Methods are
// called on the session's event loop and must not block.
type Surface interface {
	// FieldValidated sets the highlight and inline error text of one field.
	FieldValidated(role validation.Role, state FieldState, message string)
	// MetricsUpdated pushes the character budget, completion score and preview.
	MetricsUpdated(m validation.Metrics)
	// FieldsReset replaces the field contents (restore, clear, after submit).
	FieldsReset(name, email, message string)
	// Focus moves input focus to a field.
	Focus(role validation.Role)
	// SetBusy shows or hides the submission busy indicator.
	SetBusy(busy bool)
	// ShowWarning shows a transient warning, e.g. the duplicate guard text.
	ShowWarning(text string)
	// NotifySuccess shows the success notification for a completed submission.
	NotifySuccess(name, text string)
	// DraftStatus reports a draft save/clear/restore acknowledgement.
	DraftStatus(event DraftEvent)
	// ThemeChanged applies a color scheme.
	ThemeChanged(theme Theme)
}
