package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/config"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the preferences file",
	Long: `Create, print or locate the preferences file.

These commands do not require the existing file to be valid, so they can
be used to repair it.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a preferences file with default values",
	Example: `  contactform config init
  contactform config init --force --config ./contactform.yaml`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective preferences",
	Long: `Print the preferences after applying CONTACTFORM_* environment
variables. A missing file shows the defaults.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the preferences file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.PersistentPreRunE = prepareConfigCommand
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// prepareConfigCommand replaces loadSettings for config commands: it skips
// the file so a broken one can still be inspected and rewritten.
func prepareConfigCommand(cmd *cobra.Command, _ []string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}
	return logging.InitializeWithOutput(logLevel, logFile)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.NewConfig().SaveTo(path); err != nil {
		return err
	}
	logging.Info("Wrote default config", zap.String("path", path))

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Preferences file written",
		ui.Detail{Key: "Path", Value: path},
	)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.LoadFrom(path)
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err != nil {
		p.PrintError("Preferences could not be loaded", err)
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	p.PrintHeader("Effective preferences", "contactform config show",
		ui.Detail{Key: "File", Value: path},
	)
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
