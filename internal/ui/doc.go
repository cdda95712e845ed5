// Package ui renders run-once terminal output for the contactform CLI.
//
// Unlike the interactive form in internal/tui, these components print and
// return: command headers, success/warning/error boxes and the validation
// report used by `contactform validate` and `contactform draft show`.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	report := ui.NewReport(fields, validation.CharBudget)
//	p.PrintReport(report)
//	if !report.Valid() {
//	    p.PrintError("Validation failed", err)
//	}
//
// # Logging Integration
//
// zap logging stays silent unless CONTACTFORM_LOG_LEVEL (or --log-level) is
// set, so the styled output is not interleaved with log lines.
package ui
