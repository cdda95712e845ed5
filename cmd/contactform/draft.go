package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/contactform/internal/draft"
	"github.com/muurk/contactform/internal/formerr"
	"github.com/muurk/contactform/internal/ui"
)

var (
	draftKey      string
	draftClearYes bool
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or clear the saved draft",
	Long: `Work with the draft the form restores on start.

Server sessions keep one draft per browser; pass --key to reach one of
those (the key is shown in the server's debug log).`,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved draft",
	Example: `  contactform draft show
  contactform draft show --draft-backend file --draft-path ./drafts`,
	RunE: runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved draft",
	Example: `  # Asks before deleting
  contactform draft clear

  # No prompt
  contactform draft clear --yes`,
	RunE: runDraftClear,
}

func init() {
	draftCmd.PersistentFlags().StringVar(&draftKey, "key", draft.DefaultKey, "Draft record key")
	draftClearCmd.Flags().BoolVarP(&draftClearYes, "yes", "y", false, "Skip the confirmation prompt")

	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
	rootCmd.AddCommand(draftCmd)
}

// openDraftStore opens the configured backend directly. Unlike the form,
// these commands fail when drafts are unavailable.
func openDraftStore() (*draft.Store, func(), error) {
	path, err := settings.DraftPath()
	if err != nil {
		return nil, nil, formerr.NewStorageError("draft location unavailable", err)
	}
	kv, err := draft.Open(settings.Draft.Backend, path)
	if err != nil {
		return nil, nil, err
	}
	return draft.NewStore(kv, draft.WithKey(draftKey)), func() { _ = kv.Close() }, nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	store, closeStore, err := openDraftStore()
	if err != nil {
		p.PrintError("Drafts unavailable", err)
		return err
	}
	defer closeStore()

	rec, err := store.Peek()
	if err != nil {
		p.PrintError("Draft could not be read", err)
		return err
	}
	if rec == nil {
		p.PrintWarning("No saved draft",
			ui.Detail{Key: "Backend", Value: settings.Draft.Backend},
			ui.Detail{Key: "Key", Value: store.Key()},
		)
		return nil
	}

	p.PrintSuccess("Saved draft",
		ui.Detail{Key: "Backend", Value: settings.Draft.Backend},
		ui.Detail{Key: "Key", Value: store.Key()},
		ui.Detail{Key: "Saved", Value: rec.SavedAt().Format(time.RFC1123)},
	)
	p.PrintReport(ui.NewReport(rec.Fields(), settings.Form.CharBudget))
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	store, closeStore, err := openDraftStore()
	if err != nil {
		p.PrintError("Drafts unavailable", err)
		return err
	}
	defer closeStore()

	if !draftClearYes && !ui.ConfirmDraftClear(cmd.InOrStdin(), cmd.OutOrStdout(), p.Width()) {
		return nil
	}

	if err := store.Clear(); err != nil {
		p.PrintError("Draft not cleared", err)
		return fmt.Errorf("clear draft: %w", err)
	}
	p.PrintSuccess("Draft cleared", ui.Detail{Key: "Key", Value: store.Key()})
	return nil
}
