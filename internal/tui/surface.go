package tui

import (
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/validation"
)

// fieldView is the highlight and inline message of one field.
type fieldView struct {
	state   form.FieldState
	message string
}

// viewState implements form.Surface. The controller writes into it from the
// Bubble Tea update loop; Model.sync then copies the pending changes into the
// input widgets.
type viewState struct {
	fields  map[validation.Role]fieldView
	metrics validation.Metrics
	busy    bool
	warning string
	draft   form.DraftEvent
	theme   form.Theme

	successName string
	successText string
	showSuccess bool

	pendingReset *validation.Fields
	pendingFocus *validation.Role
	themeDirty   bool
}

func newViewState() *viewState {
	return &viewState{
		fields: make(map[validation.Role]fieldView, len(validation.Roles)),
		theme:  form.ThemeLight,
	}
}

func (v *viewState) FieldValidated(role validation.Role, state form.FieldState, message string) {
	v.fields[role] = fieldView{state: state, message: message}
}

func (v *viewState) MetricsUpdated(m validation.Metrics) {
	v.metrics = m
}

func (v *viewState) FieldsReset(name, email, message string) {
	v.pendingReset = &validation.Fields{Name: name, Email: email, Message: message}
}

func (v *viewState) Focus(role validation.Role) {
	v.pendingFocus = &role
}

func (v *viewState) SetBusy(busy bool) {
	v.busy = busy
}

func (v *viewState) ShowWarning(text string) {
	v.warning = text
}

func (v *viewState) NotifySuccess(name, text string) {
	v.successName = name
	v.successText = text
	v.showSuccess = true
	v.warning = ""
}

func (v *viewState) DraftStatus(event form.DraftEvent) {
	v.draft = event
}

func (v *viewState) ThemeChanged(theme form.Theme) {
	v.theme = theme
	v.themeDirty = true
}

// draftLabel is the text shown next to the draft controls.
func draftLabel(e form.DraftEvent) string {
	switch e {
	case form.DraftEventSaved:
		return "Saved ✓"
	case form.DraftEventCleared:
		return "Cleared ✓"
	case form.DraftEventAutoSaved:
		return "Draft auto-saved"
	case form.DraftEventRestored:
		return "Draft restored"
	default:
		return ""
	}
}
