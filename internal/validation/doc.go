// Package validation holds the contact form's field rules and the values
// derived from the current field text.
//
// Everything here is a pure function of its arguments and cheap enough to run
// on every keystroke:
//
//   - ValidateName, ValidateEmail, ValidateMessage and Validate
//   - CharsRemaining and CompletionScore
//   - EscapeMarkup, RenderPreview, RenderPreviewText and Greeting
//
// Values are trimmed before evaluation, except CharsRemaining which counts the
// raw message so trailing spaces still spend budget.
package validation
