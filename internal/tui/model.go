package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/draft"
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/guard"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/validation"
)

// Focus indexes: the three fields in order, then the send button.
const (
	focusMessage = 2
	focusSend    = 3
)

// Options configures the terminal form.
type Options struct {
	Store            *draft.Store
	Guard            *guard.Guard
	Scheduler        form.Scheduler
	SubmitLatency    time.Duration
	AutoSaveInterval time.Duration
	CharBudget       int
	Theme            form.Theme

	// OnThemeChange is called after the user toggles the theme.
	OnThemeChange func(form.Theme)
}

// taskMsg carries a scheduled controller callback onto the update loop.
type taskMsg struct {
	run func()
}

// Model is the Bubble Tea model of the contact form.
type Model struct {
	ctl  *form.Controller
	view *viewState

	name    textinput.Model
	email   textinput.Model
	message textarea.Model
	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
	styles  Styles

	focus         int
	spinning      bool
	onThemeChange func(form.Theme)
	quitting      bool

	Width  int
	Height int
}

// NewModel creates the form model, starts its controller and applies any
// restored draft.
func NewModel(opts Options) Model {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = validation.MaxNameLength
	name.Prompt = ""

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = validation.MaxEmailLength
	email.Prompt = ""

	msg := textarea.New()
	msg.Placeholder = "How can we help?"
	msg.ShowLineNumbers = false
	msg.CharLimit = validation.MaxMessageLength
	msg.SetHeight(5)
	msg.FocusedStyle.CursorLine = lipgloss.NewStyle()

	s := spinner.New()
	s.Spinner = spinner.Dot

	view := newViewState()
	m := Model{
		view:          view,
		name:          name,
		email:         email,
		message:       msg,
		spinner:       s,
		help:          help.New(),
		keys:          newKeyMap(),
		onThemeChange: opts.OnThemeChange,
		Width:         80,
		Height:        30,
	}
	m.ctl = form.New(view, form.Config{
		Store:            opts.Store,
		Guard:            opts.Guard,
		Scheduler:        opts.Scheduler,
		SubmitLatency:    opts.SubmitLatency,
		AutoSaveInterval: opts.AutoSaveInterval,
		CharBudget:       opts.CharBudget,
		Theme:            opts.Theme,
	})

	m.ctl.Start()
	m.applyTheme()
	view.themeDirty = false
	m, _ = m.sync()
	m.setFocus(0)
	m.resize()
	return m
}

// Controller returns the form controller driving this model.
func (m Model) Controller() *form.Controller {
	return m.ctl
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		return m, nil

	case taskMsg:
		msg.run()
		return m.sync()

	case spinner.TickMsg:
		if !m.view.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.view.showSuccess {
		switch msg.String() {
		case "enter", "esc", " ":
			m.view.showSuccess = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.ctl.Submit()
		return m.sync()

	case key.Matches(msg, m.keys.Save):
		_ = m.ctl.SaveDraft()
		return m.sync()

	case key.Matches(msg, m.keys.Clear):
		_ = m.ctl.ClearDraft()
		return m.sync()

	case key.Matches(msg, m.keys.Theme):
		m.ctl.ToggleTheme()
		return m.sync()

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(m.focus + 1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(m.focus - 1)

	// up and down move the cursor between lines in the message box
	case key.Matches(msg, m.keys.Down) && m.focus != focusMessage:
		return m.moveFocus(m.focus + 1)

	case key.Matches(msg, m.keys.Up) && m.focus != focusMessage:
		return m.moveFocus(m.focus - 1)

	case key.Matches(msg, m.keys.Enter):
		switch m.focus {
		case 0, 1:
			role := validation.Roles[m.focus]
			m.ctl.Blur(role)
			m.ctl.Advance(role)
			return m.sync()
		case focusSend:
			m.ctl.Submit()
			return m.sync()
		}
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and reports edits to the
// controller.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case 0:
		before := m.name.Value()
		m.name, cmd = m.name.Update(msg)
		if v := m.name.Value(); v != before {
			m.ctl.Edit(validation.RoleName, v)
		}
	case 1:
		before := m.email.Value()
		m.email, cmd = m.email.Update(msg)
		if v := m.email.Value(); v != before {
			m.ctl.Edit(validation.RoleEmail, v)
		}
	case 2:
		before := m.message.Value()
		m.message, cmd = m.message.Update(msg)
		if v := m.message.Value(); v != before {
			m.ctl.Edit(validation.RoleMessage, v)
		}
	default:
		return m, nil
	}

	m, syncCmd := m.sync()
	return m, tea.Batch(cmd, syncCmd)
}

func (m Model) moveFocus(to int) (tea.Model, tea.Cmd) {
	if m.focus < focusSend {
		m.ctl.Blur(validation.Roles[m.focus])
	}
	n := focusSend + 1
	m.setFocus(((to % n) + n) % n)
	return m.sync()
}

func (m *Model) setFocus(i int) {
	m.focus = i
	m.name.Blur()
	m.email.Blur()
	m.message.Blur()
	switch i {
	case 0:
		m.name.Focus()
	case 1:
		m.email.Focus()
	case 2:
		m.message.Focus()
	}
}

// sync copies pending surface changes into the widgets.
func (m Model) sync() (Model, tea.Cmd) {
	v := m.view
	var cmds []tea.Cmd

	if v.pendingReset != nil {
		m.name.SetValue(v.pendingReset.Name)
		m.email.SetValue(v.pendingReset.Email)
		m.message.SetValue(v.pendingReset.Message)
		v.pendingReset = nil
	}

	if v.pendingFocus != nil {
		for i, role := range validation.Roles {
			if role == *v.pendingFocus {
				m.setFocus(i)
			}
		}
		v.pendingFocus = nil
	}

	if v.themeDirty {
		v.themeDirty = false
		m.applyTheme()
		if m.onThemeChange != nil {
			m.onThemeChange(v.theme)
		}
	}

	switch {
	case v.busy && !m.spinning:
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	case !v.busy:
		m.spinning = false
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyTheme() {
	m.styles = NewStyles(m.view.theme)
	m.spinner.Style = m.styles.Spinner
	m.bar = progress.New(
		progress.WithSolidFill(string(m.styles.Palette.Accent)),
		progress.WithoutPercentage(),
		progress.WithWidth(m.barWidth()),
	)
}

func (m *Model) resize() {
	w := m.formWidth()
	m.name.Width = w - 16
	m.email.Width = w - 16
	m.message.SetWidth(w - 4)
	m.bar.Width = m.barWidth()
	m.help.Width = m.Width - 4
}

func (m Model) formWidth() int {
	w := m.Width - 6
	if w > MaxFormWidth {
		w = MaxFormWidth
	}
	if w < MinTerminalWidth-6 {
		w = MinTerminalWidth - 6
	}
	return w
}

func (m Model) barWidth() int {
	w := m.formWidth() - 30
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctl.Close()
	logging.Debug("Terminal form closed", zap.String("state", m.ctl.State().String()))
	return m, tea.Quit
}

// View renders the form.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.view.showSuccess {
		return RenderModal(m.renderSuccess(), m.Width, m.Height)
	}

	return RenderApplicationContainer(m.styles.Palette, m.renderForm(), m.help.View(m.keys), m.Width, m.Height)
}

func (m Model) renderForm() string {
	s := m.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.renderLine(0, m.name.View()))
	b.WriteString(m.renderLine(1, m.email.View()))

	label := s.Label
	if m.focus == focusMessage {
		label = s.FocusedLabel
	}
	b.WriteString("  " + label.Render("Message") + "\n")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.FieldBorder(m.view.fields[validation.RoleMessage].state, m.focus == focusMessage)).
		MarginLeft(2)
	b.WriteString(box.Render(m.message.View()) + "\n")
	b.WriteString(m.renderFieldMessage(validation.RoleMessage))

	b.WriteString("\n")
	b.WriteString("  " + m.renderMetrics() + "\n")
	b.WriteString("  " + s.Preview.Width(m.formWidth()-4).Render(m.view.metrics.PreviewText) + "\n\n")

	button := s.Button
	if m.focus == focusSend {
		button = s.ActiveButton
	}
	status := ""
	if m.view.busy {
		status = m.spinner.View() + " Sending..."
	} else if text := draftLabel(m.view.draft); text != "" {
		status = s.Valid.Render(text)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, "  ", button.Render("Send"), "  ", status) + "\n")

	if m.view.warning != "" {
		b.WriteString("\n  " + s.Warning.Render("⚠ "+m.view.warning) + "\n")
	}
	return b.String()
}

func (m Model) renderLine(i int, input string) string {
	s := m.styles
	role := validation.Roles[i]

	label := s.Label
	if m.focus == i {
		label = s.FocusedLabel
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.FieldBorder(m.view.fields[role].state, m.focus == i)).
		Width(m.formWidth() - 14)

	line := lipgloss.JoinHorizontal(lipgloss.Center, "  ", label.Render(fieldTitle(role)), box.Render(input))
	return line + "\n" + m.renderFieldMessage(role)
}

func (m Model) renderFieldMessage(role validation.Role) string {
	fv := m.view.fields[role]
	switch fv.state {
	case form.FieldInvalid:
		return "  " + m.styles.Invalid.Render("✗ "+fv.message) + "\n"
	case form.FieldValid:
		return "  " + m.styles.Valid.Render("✓") + "\n"
	default:
		return "\n"
	}
}

func (m Model) renderMetrics() string {
	s := m.styles
	mt := m.view.metrics

	remaining := fmt.Sprintf("%d chars left", mt.CharsRemaining)
	if mt.CharsRemaining < 0 {
		remaining = s.Invalid.Render(remaining)
	} else {
		remaining = s.Muted.Render(remaining)
	}
	score := m.bar.ViewAs(float64(mt.CompletionScore)/100) + s.Muted.Render(fmt.Sprintf(" %3d%%", mt.CompletionScore))
	return remaining + s.Muted.Render("  ·  ") + score
}

func (m Model) renderSuccess() string {
	s := m.styles
	title := s.Valid.Bold(true).Render("✓ Message sent")
	body := lipgloss.NewStyle().
		Foreground(s.Palette.Text).
		Width(SafeModalWidth(ModalWidth, m.Width) - 6).
		Render(m.view.successText)
	hint := s.Muted.Render("enter to continue")
	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}

func fieldTitle(role validation.Role) string {
	switch role {
	case validation.RoleName:
		return "Name"
	case validation.RoleEmail:
		return "Email"
	default:
		return "Message"
	}
}
