package form

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/draft"
	"github.com/muurk/contactform/internal/formerr"
	"github.com/muurk/contactform/internal/guard"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/validation"
)

// MsgDuplicateSubmission is shown when the guard blocks a resubmission.
const MsgDuplicateSubmission = "Please avoid sending the same message repeatedly so quickly."

// Defaults for Config
const (
	DefaultSubmitLatency = 1400 * time.Millisecond
	DefaultDraftAck      = 1200 * time.Millisecond
)

// State is the submission state of a Controller.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateGuardBlocked
	StateSubmitting
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateGuardBlocked:
		return "guard-blocked"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config wires a Controller. Zero values select the defaults.
type Config struct {
	Store            *draft.Store
	Guard            *guard.Guard
	Scheduler        Scheduler
	SubmitLatency    time.Duration
	AutoSaveInterval time.Duration
	DraftAck         time.Duration
	CharBudget       int
	Theme            Theme
}

// Controller is one form session. All methods must be called from the
// session's event loop; scheduled callbacks arrive there through the
// Scheduler.
type Controller struct {
	surface Surface
	store   *draft.Store
	guard   *guard.Guard
	sched   Scheduler

	latency  time.Duration
	autoSave time.Duration
	draftAck time.Duration
	budget   int

	fields validation.Fields
	state  State
	theme  Theme

	submitTask   Task
	autoSaveTask Task
	ackTask      Task

	started bool
	closed  bool
}

// New creates a Controller that reports to surface.
func New(surface Surface, cfg Config) *Controller {
	c := &Controller{
		surface:  surface,
		store:    cfg.Store,
		guard:    cfg.Guard,
		sched:    cfg.Scheduler,
		latency:  cfg.SubmitLatency,
		autoSave: cfg.AutoSaveInterval,
		draftAck: cfg.DraftAck,
		budget:   cfg.CharBudget,
		theme:    ParseTheme(string(cfg.Theme)),
	}
	if c.store == nil {
		c.store = draft.NewStore(nil)
	}
	if c.guard == nil {
		c.guard = guard.New(guard.DefaultCooldown)
	}
	if c.latency <= 0 {
		c.latency = DefaultSubmitLatency
	}
	if c.autoSave <= 0 {
		c.autoSave = draft.DefaultAutoSaveInterval
	}
	if c.draftAck <= 0 {
		c.draftAck = DefaultDraftAck
	}
	if c.budget <= 0 {
		c.budget = validation.CharBudget
	}
	return c
}

// State returns the current submission state.
func (c *Controller) State() State { return c.state }

// Fields returns the current raw field values.
func (c *Controller) Fields() validation.Fields { return c.fields }

// Theme returns the current theme.
func (c *Controller) Theme() Theme { return c.theme }

// Start restores any saved draft, pushes the initial state to the surface
// and starts the periodic auto-save.
func (c *Controller) Start() {
	if c.started || c.closed {
		return
	}
	c.started = true

	if rec, ok := c.store.Restore(); ok {
		c.fields = rec.Fields().Clipped()
		c.surface.FieldsReset(c.fields.Name, c.fields.Email, c.fields.Message)
		c.surface.DraftStatus(DraftEventRestored)
	}

	c.surface.ThemeChanged(c.theme)
	c.resetHighlights()
	c.pushMetrics()

	if c.sched != nil {
		c.autoSaveTask = c.sched.Every(c.autoSave, func() { c.Tick() })
	}
	logging.Debug("Form session started",
		zap.Bool("draft_restored", !c.fields.IsEmpty()),
		zap.Bool("drafts_available", c.store.Available()),
	)
}

// Close cancels every pending task. Callbacks that were already queued on
// the event loop become no-ops.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, t := range []Task{c.submitTask, c.autoSaveTask, c.ackTask} {
		if t != nil {
			t.Cancel()
		}
	}
	c.submitTask, c.autoSaveTask, c.ackTask = nil, nil, nil
	logging.Debug("Form session closed", zap.String("state", c.state.String()))
}

// Edit records new raw text for role and revalidates. Name and email edits
// revalidate both fields; message edits revalidate the message.
func (c *Controller) Edit(role validation.Role, text string) {
	if c.closed {
		return
	}
	clipped := validation.Clip(role, text)
	if !c.fields.Set(role, clipped) {
		logging.Warn("Edit for unknown field ignored", zap.String("field", string(role)))
		return
	}
	if clipped != text {
		logging.Debug("Edit cut to input cap",
			zap.String("field", string(role)),
			zap.Int("cap", validation.MaxLength(role)),
		)
		c.surface.FieldsReset(c.fields.Name, c.fields.Email, c.fields.Message)
	}

	switch role {
	case validation.RoleName, validation.RoleEmail:
		c.reportField(validation.RoleName)
		c.reportField(validation.RoleEmail)
	case validation.RoleMessage:
		c.reportField(validation.RoleMessage)
	}
	c.pushMetrics()

	// a full name or email moves on to the next field
	if role != validation.RoleMessage && utf8.RuneCountInString(clipped) >= validation.MaxLength(role) {
		c.Advance(role)
	}
}

// Blur revalidates role when it loses focus. An empty field stays neutral.
func (c *Controller) Blur(role validation.Role) {
	if c.closed {
		return
	}
	c.reportField(role)
}

// Advance moves focus to the field after role and returns it. The message
// field is last; advancing from it does nothing.
func (c *Controller) Advance(role validation.Role) validation.Role {
	if c.closed {
		return role
	}
	var next validation.Role
	switch role {
	case validation.RoleName:
		next = validation.RoleEmail
	case validation.RoleEmail:
		next = validation.RoleMessage
	default:
		return role
	}
	c.surface.Focus(next)
	return next
}

// Submit runs one submission attempt and returns the resulting state. A
// submit while a previous one is in flight is ignored.
func (c *Controller) Submit() State {
	if c.closed {
		return c.state
	}
	if c.state == StateSubmitting {
		logging.Debug("Submit ignored, submission in flight")
		return c.state
	}

	c.setState(StateValidating)
	results, firstInvalid := validation.ValidateAll(c.fields)
	for _, role := range validation.Roles {
		r := results[role]
		state := FieldValid
		if !r.Valid {
			state = FieldInvalid
		}
		c.surface.FieldValidated(role, state, r.Message)
	}

	if firstInvalid != "" {
		c.surface.Focus(firstInvalid)
		c.setState(StateRejected, zap.String("first_invalid", string(firstInvalid)))
		return c.state
	}

	if c.guard.Check(c.fields.Message, c.now()) == guard.Reject {
		c.surface.ShowWarning(MsgDuplicateSubmission)
		c.setState(StateGuardBlocked, zap.Duration("cooldown", c.guard.Cooldown()))
		return c.state
	}

	c.setState(StateSubmitting, zap.Duration("latency", c.latency))
	c.surface.SetBusy(true)
	if c.sched == nil {
		c.completeSubmit()
		return c.state
	}
	c.submitTask = c.sched.AfterFunc(c.latency, c.completeSubmit)
	return c.state
}

// completeSubmit finishes a simulated submission with whatever the fields
// hold at that moment.
func (c *Controller) completeSubmit() {
	if c.closed || c.state != StateSubmitting {
		return
	}
	c.submitTask = nil

	name := strings.TrimSpace(c.fields.Name)
	c.surface.SetBusy(false)
	c.surface.NotifySuccess(name, validation.Greeting(name))
	c.guard.Record(c.fields.Message, c.now())

	c.fields = validation.Fields{}
	c.surface.FieldsReset("", "", "")
	c.resetHighlights()
	c.pushMetrics()

	c.setState(StateSucceeded, zap.String("name", name))
	c.setState(StateIdle)
}

// SaveDraft writes the current fields. A storage failure is shown as a
// warning and returned; the form keeps working.
func (c *Controller) SaveDraft() error {
	if c.closed {
		return nil
	}
	if _, err := c.store.Save(c.fields.Name, c.fields.Email, c.fields.Message); err != nil {
		c.surface.ShowWarning(formerr.ShortMessage(err))
		return err
	}
	c.acknowledge(DraftEventSaved)
	return nil
}

// ClearDraft removes the saved draft and empties the form. The fields are
// emptied even when the backend is unavailable.
func (c *Controller) ClearDraft() error {
	if c.closed {
		return nil
	}
	err := c.store.Clear()

	c.fields = validation.Fields{}
	c.surface.FieldsReset("", "", "")
	c.resetHighlights()
	c.pushMetrics()

	if err != nil {
		c.surface.ShowWarning(formerr.ShortMessage(err))
		return err
	}
	c.acknowledge(DraftEventCleared)
	return nil
}

// Tick is the periodic auto-save. Failures are logged only.
func (c *Controller) Tick() draft.SaveOutcome {
	if c.closed {
		return draft.Skipped
	}
	outcome, err := c.store.AutoSaveTick(c.fields.Name, c.fields.Email, c.fields.Message)
	if err != nil {
		if c.store.Available() {
			logging.Warn("Auto-save failed", zap.Error(err))
		} else {
			logging.Debug("Auto-save skipped, drafts unavailable")
		}
		return outcome
	}
	if outcome == draft.Saved {
		c.surface.DraftStatus(DraftEventAutoSaved)
	}
	return outcome
}

// ToggleTheme flips the theme and returns the new one.
func (c *Controller) ToggleTheme() Theme {
	if c.closed {
		return c.theme
	}
	c.theme = c.theme.Toggle()
	c.surface.ThemeChanged(c.theme)
	return c.theme
}

// acknowledge reports a draft event and schedules the return to idle.
func (c *Controller) acknowledge(ev DraftEvent) {
	c.surface.DraftStatus(ev)
	if c.sched == nil {
		return
	}
	if c.ackTask != nil {
		c.ackTask.Cancel()
	}
	c.ackTask = c.sched.AfterFunc(c.draftAck, func() {
		if c.closed {
			return
		}
		c.ackTask = nil
		c.surface.DraftStatus(DraftEventIdle)
	})
}

// reportField pushes the state of one field. Empty raw text is neutral.
func (c *Controller) reportField(role validation.Role) {
	text := c.fields.Get(role)
	if text == "" {
		c.surface.FieldValidated(role, FieldNeutral, "")
		return
	}

	r := validation.Validate(role, text)
	state := FieldValid
	if !r.Valid {
		state = FieldInvalid
	}
	logging.LogFieldValidation(string(role), utf8.RuneCountInString(text), r.Valid, r.Message)
	c.surface.FieldValidated(role, state, r.Message)
}

func (c *Controller) resetHighlights() {
	for _, role := range validation.Roles {
		c.surface.FieldValidated(role, FieldNeutral, "")
	}
}

func (c *Controller) pushMetrics() {
	c.surface.MetricsUpdated(validation.Compute(c.fields, c.budget))
}

func (c *Controller) setState(s State, fields ...zap.Field) {
	c.state = s
	logging.LogSubmission(s.String(), fields...)
}

func (c *Controller) now() time.Time {
	if c.sched == nil {
		return time.Now()
	}
	return c.sched.Now()
}
