package validation

import (
	"strings"
	"unicode/utf8"
)

// Scoring weights for CompletionScore
const (
	// CharBudget is the advisory message length shown to the user.
	CharBudget = 250

	nameWeight    = 30
	emailWeight   = 30
	messageWeight = 40
)

// Metrics are the derived UI values pushed after every change.
type Metrics struct {
	CharsRemaining  int    `json:"chars_remaining"`
	CompletionScore int    `json:"completion_score"`
	Preview         string `json:"preview"`
	PreviewText     string `json:"preview_text"`
}

// CharsRemaining returns CharBudget minus the raw message length.
// The result is not clamped; a negative value means over budget.
func CharsRemaining(message string) int {
	return CharsRemainingWithBudget(message, CharBudget)
}

// CharsRemainingWithBudget is CharsRemaining with a configurable budget.
func CharsRemainingWithBudget(message string, budget int) int {
	return budget - utf8.RuneCountInString(message)
}

// CompletionScore is an engagement heuristic in the range 0-100. It is not a
// validity signal: "A" scores for the name even though it fails validation.
func CompletionScore(name, email, message string) int {
	return CompletionScoreWithBudget(name, email, message, CharBudget)
}

// CompletionScoreWithBudget is CompletionScore with a configurable budget.
func CompletionScoreWithBudget(name, email, message string, budget int) int {
	score := 0
	if strings.TrimSpace(name) != "" {
		score += nameWeight
	}
	if strings.TrimSpace(email) != "" {
		score += emailWeight
	}
	if budget <= 0 {
		return score
	}
	n := utf8.RuneCountInString(strings.TrimSpace(message))
	part := n * messageWeight / budget
	if part > messageWeight {
		part = messageWeight
	}
	return score + part
}

// Compute builds the full metrics for the current field values.
func Compute(f Fields, budget int) Metrics {
	return Metrics{
		CharsRemaining:  CharsRemainingWithBudget(f.Message, budget),
		CompletionScore: CompletionScoreWithBudget(f.Name, f.Email, f.Message, budget),
		Preview:         RenderPreview(f.Name, f.Email, f.Message),
		PreviewText:     RenderPreviewText(f.Name, f.Email, f.Message),
	}
}
