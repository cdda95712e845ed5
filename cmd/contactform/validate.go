package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/contactform/internal/formerr"
	"github.com/muurk/contactform/internal/ui"
	"github.com/muurk/contactform/internal/validation"
)

// Validate command flags
var (
	validateName    string
	validateEmail   string
	validateMessage string
	validateFormat  string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate field values without opening the form",
	Long: `Run the form's validation rules over the given values and print the
per-field results, the character count, the completion score and the
escaped preview.

Exits non-zero when any field is invalid, so it can gate scripts.`,
	Example: `  contactform validate --name "Ana Lopez" --email ana@example.com \
    --message "Hello there, I'd like a quote."

  # Machine-readable output
  contactform validate --name Al --email bad --format json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateName, "name", "", "Name field value")
	validateCmd.Flags().StringVar(&validateEmail, "email", "", "Email field value")
	validateCmd.Flags().StringVar(&validateMessage, "message", "", "Message field value")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(validateCmd)
}

type fieldJSON struct {
	Field   validation.Role `json:"field"`
	Valid   bool            `json:"valid"`
	Message string          `json:"message,omitempty"`
}

type reportJSON struct {
	Valid   bool               `json:"valid"`
	Fields  []fieldJSON        `json:"fields"`
	Metrics validation.Metrics `json:"metrics"`
	Budget  int                `json:"budget"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	fields := validation.Fields{
		Name:    validateName,
		Email:   validateEmail,
		Message: validateMessage,
	}
	report := ui.NewReport(fields, settings.Form.CharBudget)

	switch validateFormat {
	case "text":
		ui.NewPrinter(cmd.OutOrStdout()).PrintReport(report)
	case "json":
		out := reportJSON{
			Valid:   report.Valid(),
			Metrics: report.Metrics,
			Budget:  report.Budget,
		}
		for _, f := range report.Fields {
			out.Fields = append(out.Fields, fieldJSON{
				Field:   f.Role,
				Valid:   f.Result.Valid,
				Message: f.Result.Message,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want text or json)", validateFormat)
	}

	if role, bad := report.FirstInvalid(); bad {
		for _, f := range report.Fields {
			if f.Role == role {
				return formerr.NewValidationError(string(role), f.Result.Message)
			}
		}
	}
	return nil
}
