package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/version"
)

// Application branding constants
const (
	AppName   = "CONTACT FORM"
	GitHubURL = "github.com/muurk/contactform"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants
const (
	MinTerminalWidth = 60
	MaxFormWidth     = 90
	ModalWidth       = 56
)

// Palette is the set of colors for one theme.
type Palette struct {
	Border  lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Subtle  lipgloss.Color
	Valid   lipgloss.Color
	Invalid lipgloss.Color
	Warning lipgloss.Color
}

var (
	// DarkPalette suits dark terminal backgrounds.
	DarkPalette = Palette{
		Border:  lipgloss.Color("#7D56F4"),
		Accent:  lipgloss.Color("#7D56F4"),
		Text:    lipgloss.Color("#FFFFFF"),
		Subtle:  lipgloss.Color("#626262"),
		Valid:   lipgloss.Color("#43BF6D"),
		Invalid: lipgloss.Color("#FF5555"),
		Warning: lipgloss.Color("#FFA500"),
	}

	// LightPalette suits light terminal backgrounds.
	LightPalette = Palette{
		Border:  lipgloss.Color("#5A3FC0"),
		Accent:  lipgloss.Color("#5A3FC0"),
		Text:    lipgloss.Color("#1A1A1A"),
		Subtle:  lipgloss.Color("#8A8A8A"),
		Valid:   lipgloss.Color("#1E8C45"),
		Invalid: lipgloss.Color("#C62828"),
		Warning: lipgloss.Color("#B86E00"),
	}
)

// PaletteFor returns the palette of a theme.
func PaletteFor(t form.Theme) Palette {
	if t == form.ThemeDark {
		return DarkPalette
	}
	return LightPalette
}

// Styles are the rendered styles derived from a Palette.
type Styles struct {
	Palette Palette

	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Valid        lipgloss.Style
	Invalid      lipgloss.Style
	Warning      lipgloss.Style
	Muted        lipgloss.Style
	Preview      lipgloss.Style
	Button       lipgloss.Style
	ActiveButton lipgloss.Style
	Modal        lipgloss.Style
	Spinner      lipgloss.Style
}

// NewStyles builds Styles for a theme.
func NewStyles(t form.Theme) Styles {
	p := PaletteFor(t)
	return Styles{
		Palette: p,
		Label: lipgloss.NewStyle().
			Foreground(p.Text).
			Width(10),
		FocusedLabel: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Width(10),
		Valid: lipgloss.NewStyle().
			Foreground(p.Valid),
		Invalid: lipgloss.NewStyle().
			Foreground(p.Invalid),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(p.Subtle),
		Preview: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Italic(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Subtle).
			PaddingLeft(1),
		Button: lipgloss.NewStyle().
			Foreground(p.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Subtle).
			Padding(0, 2),
		ActiveButton: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 2),
		Modal: lipgloss.NewStyle().
			Foreground(p.Valid).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Valid).
			Padding(1, 2),
		Spinner: lipgloss.NewStyle().
			Foreground(p.Accent),
	}
}

// FieldBorder returns the border color for a field highlight.
func (s Styles) FieldBorder(state form.FieldState, focused bool) lipgloss.Color {
	switch state {
	case form.FieldValid:
		return s.Palette.Valid
	case form.FieldInvalid:
		return s.Palette.Invalid
	}
	if focused {
		return s.Palette.Accent
	}
	return s.Palette.Subtle
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent(p Palette) string {
	left := lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(p.Subtle).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps a screen in the bordered full-terminal
// panel with the application header on top and help text pinned below.
//
//	func (m Model) View() string {
//	    return RenderApplicationContainer(m.styles.Palette, content, help, m.width, m.height)
//	}
func RenderApplicationContainer(p Palette, content, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(p.Border).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(p.Border).
		Foreground(p.Subtle).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent(p)),
		contentStyle.Render(content),
		footerStyle.Render(footerText),
	)

	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Border).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		border = border.Height(terminalHeight - 2)
	}

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		border.Render(inner),
	)
}

// RenderModal centers modal content over a dimmed background.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// SafeModalWidth keeps a modal inside the terminal.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}
