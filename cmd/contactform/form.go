package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/config"
	"github.com/muurk/contactform/internal/draft"
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/guard"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/tui"
	"github.com/muurk/contactform/internal/ui"
)

var formCmd = &cobra.Command{
	Use:     "form",
	Aliases: []string{"tui"},
	Short:   "Open the interactive contact form",
	Long: `Open the contact form in the terminal.

Fields validate as you type. The draft is restored on start, saved every
few seconds while you type, and can be saved or cleared by hand. Sending is
simulated: after a short delay the form shows a confirmation and resets.`,
	Example: `  # Open the form (also the default with no command)
  contactform form

  # Keep drafts in plain JSON files next to the project
  contactform form --draft-backend file --draft-path ./drafts

  # Log to a file while the form is open
  contactform form --log-level debug --log-file form.log`,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("the interactive form needs a terminal; use 'contactform validate' for scripts")
	}

	kv, closeKV := openDrafts(settings)
	defer closeKV()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, tui.Options{
		Store:            draft.NewStore(kv),
		Guard:            guard.New(settings.Submit.Cooldown),
		SubmitLatency:    settings.Submit.Latency,
		AutoSaveInterval: settings.Draft.AutoSaveInterval,
		CharBudget:       settings.Form.CharBudget,
		Theme:            form.ParseTheme(settings.UI.Theme),
		OnThemeChange:    persistTheme,
	})
}

// openDrafts opens the configured backend. Failure is logged and yields a
// nil KV: the form keeps working without drafts.
func openDrafts(cfg *config.Config) (draft.KV, func()) {
	path, err := cfg.DraftPath()
	if err != nil {
		logging.Warn("Draft location unavailable", zap.Error(err))
		return nil, func() {}
	}

	kv, err := draft.Open(cfg.Draft.Backend, path)
	if err != nil {
		logging.Warn("Drafts disabled",
			zap.String("backend", cfg.Draft.Backend),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, func() {}
	}

	logging.Debug("Draft store opened",
		zap.String("backend", cfg.Draft.Backend),
		zap.String("path", path),
	)
	return kv, func() {
		if err := kv.Close(); err != nil {
			logging.Warn("Failed to close draft store", zap.Error(err))
		}
	}
}

// persistTheme writes a toggled theme back to the config file.
func persistTheme(theme form.Theme) {
	path, err := resolvedConfigPath()
	if err != nil {
		logging.Warn("Theme not saved", zap.Error(err))
		return
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		logging.Warn("Theme not saved", zap.Error(err))
		return
	}
	cfg.UI.Theme = string(theme)
	if err := cfg.SaveTo(path); err != nil {
		logging.Warn("Theme not saved", zap.Error(err))
	}
}
