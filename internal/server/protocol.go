package server

import (
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/validation"
)

// Client message types
const (
	TypeEdit    = "edit"
	TypeBlur    = "blur"
	TypeAdvance = "advance"
	TypeSubmit  = "submit"
	TypeSave    = "save"
	TypeClear   = "clear"
	TypeTheme   = "theme"
)

// Server message types
const (
	TypeField   = "field"
	TypeMetrics = "metrics"
	TypeReset   = "reset"
	TypeFocus   = "focus"
	TypeBusy    = "busy"
	TypeWarning = "warning"
	TypeSuccess = "success"
	TypeDraft   = "draft"
	TypeError   = "error"
)

// ClientMessage is one event sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerMessage is one presentation update sent to the browser. Only the
// fields relevant to Type are set.
type ServerMessage struct {
	Type string `json:"type"`

	Field   string `json:"field,omitempty"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`

	Metrics *validation.Metrics `json:"metrics,omitempty"`
	Fields  *validation.Fields  `json:"fields,omitempty"`

	Busy  *bool  `json:"busy,omitempty"`
	Text  string `json:"text,omitempty"`
	Name  string `json:"name,omitempty"`
	Event string `json:"event,omitempty"`
	Theme string `json:"theme,omitempty"`
}

// wsSurface turns controller output into ServerMessages.
type wsSurface struct {
	send func(ServerMessage)
}

func (s wsSurface) FieldValidated(role validation.Role, state form.FieldState, message string) {
	s.send(ServerMessage{Type: TypeField, Field: string(role), State: state.String(), Message: message})
}

func (s wsSurface) MetricsUpdated(m validation.Metrics) {
	s.send(ServerMessage{Type: TypeMetrics, Metrics: &m})
}

func (s wsSurface) FieldsReset(name, email, message string) {
	s.send(ServerMessage{Type: TypeReset, Fields: &validation.Fields{Name: name, Email: email, Message: message}})
}

func (s wsSurface) Focus(role validation.Role) {
	s.send(ServerMessage{Type: TypeFocus, Field: string(role)})
}

func (s wsSurface) SetBusy(busy bool) {
	s.send(ServerMessage{Type: TypeBusy, Busy: &busy})
}

func (s wsSurface) ShowWarning(text string) {
	s.send(ServerMessage{Type: TypeWarning, Text: text})
}

func (s wsSurface) NotifySuccess(name, text string) {
	s.send(ServerMessage{Type: TypeSuccess, Name: name, Text: text})
}

func (s wsSurface) DraftStatus(event form.DraftEvent) {
	s.send(ServerMessage{Type: TypeDraft, Event: event.String()})
}

func (s wsSurface) ThemeChanged(theme form.Theme) {
	s.send(ServerMessage{Type: TypeTheme, Theme: string(theme)})
}
