package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/contactform/internal/validation"
)

// FieldReport is the validation outcome of one field for CLI output.
type FieldReport struct {
	Role    validation.Role
	Value   string
	Result  validation.Result
	Neutral bool // empty and not yet submitted
}

// Report summarizes a full validation pass.
type Report struct {
	Fields  []FieldReport
	Metrics validation.Metrics
	Budget  int
}

// NewReport validates every field in focus order.
func NewReport(f validation.Fields, budget int) Report {
	results, _ := validation.ValidateAll(f)
	r := Report{
		Metrics: validation.Compute(f, budget),
		Budget:  budget,
	}
	for _, role := range validation.Roles {
		r.Fields = append(r.Fields, FieldReport{
			Role:   role,
			Value:  f.Get(role),
			Result: results[role],
		})
	}
	return r
}

// Valid reports whether every field passed.
func (r Report) Valid() bool {
	for _, f := range r.Fields {
		if !f.Result.Valid {
			return false
		}
	}
	return true
}

// FirstInvalid returns the first failing role in focus order.
func (r Report) FirstInvalid() (validation.Role, bool) {
	for _, f := range r.Fields {
		if !f.Result.Valid {
			return f.Role, true
		}
	}
	return "", false
}

// RenderCompletionBar renders the completion score as a gradient bar.
func RenderCompletionBar(score, width int) string {
	barWidth := width - 24
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(float64(score)/100) + fmt.Sprintf(" %3d%%", score)
}

// RenderReport renders the per-field results, metrics and preview.
func RenderReport(r Report, width int) string {
	width = clampWidth(width)

	var lines []string
	for _, f := range r.Fields {
		marker, style, note := SuccessMarker, FieldValidStyle, "ok"
		switch {
		case f.Neutral:
			marker, style, note = NeutralMarker, ResultValueStyle, ""
		case !f.Result.Valid:
			marker, style, note = FailureMarker, FieldInvalidStyle, f.Result.Message
		}
		lines = append(lines, "   "+style.Render(marker)+"  "+FieldNameStyle.Render(string(f.Role))+style.Render(note))
	}
	lines = append(lines, "")

	remaining := fmt.Sprintf("%d chars left", r.Metrics.CharsRemaining)
	if r.Metrics.CharsRemaining < 0 {
		remaining = FieldInvalidStyle.Render(remaining)
	}
	lines = append(lines,
		ResultKeyStyle.Render("   Characters:")+" "+remaining,
		ResultKeyStyle.Render("   Completion:")+" "+RenderCompletionBar(r.Metrics.CompletionScore, width),
		"",
		PreviewStyle.Width(width-10).Render(r.Metrics.PreviewText),
	)

	color := SuccessColor
	if !r.Valid() {
		color = ErrorColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(1, 1).
		Render(strings.Join(lines, "\n"))
}
