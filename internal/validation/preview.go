package validation

import (
	"fmt"
	"strings"
)

// Preview placeholders for fields that are empty after trimming
const (
	PlaceholderName    = "—"
	PlaceholderEmail   = "—"
	PlaceholderMessage = "(empty)"
)

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeMarkup escapes the characters that would open markup: &, < and >.
// Quotes are left alone; the preview is element content, never an attribute.
func EscapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

func previewParts(name, email, message string) (string, string, string) {
	n := strings.TrimSpace(name)
	if n == "" {
		n = PlaceholderName
	}
	e := strings.TrimSpace(email)
	if e == "" {
		e = PlaceholderEmail
	}
	m := strings.TrimSpace(message)
	if m == "" {
		m = PlaceholderMessage
	}
	return n, e, m
}

// RenderPreview renders the live preview as escaped markup for a browser.
func RenderPreview(name, email, message string) string {
	n, e, m := previewParts(name, email, message)
	body := strings.ReplaceAll(EscapeMarkup(m), "\n", "<br/>")
	return fmt.Sprintf("<strong>%s</strong> <span class=\"muted\">(%s)</span><hr/>%s",
		EscapeMarkup(n), EscapeMarkup(e), body)
}

// RenderPreviewText renders the live preview as plain text for a terminal.
func RenderPreviewText(name, email, message string) string {
	n, e, m := previewParts(name, email, message)
	return fmt.Sprintf("%s (%s)\n%s", n, e, m)
}

// Greeting is the success notification text for a completed submission.
func Greeting(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		n = "there"
	}
	return fmt.Sprintf("Hi %s — your message is validated. (Demo: not actually sent.)", n)
}
