// Contactform is a contact form with live validation, drafts and a
// duplicate-submission guard.
//
// It runs the form in the terminal, serves it to browsers over WebSocket,
// and offers one-shot commands for validation, draft inspection and
// configuration.
//
// Usage:
//
//	contactform [command] [flags]
//
// Running without arguments opens the interactive form.
// See 'contactform --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/config"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath   string
	logLevel     string
	logFile      string
	draftBackend string
	draftPath    string
	themeFlag    string
)

// settings is the merged configuration: file, then environment, then flags.
var settings *config.Config

var rootCmd = &cobra.Command{
	Use:   "contactform",
	Short: "Contact form with live validation and drafts",
	Long: `A contact form with live field validation, a character budget,
draft auto-save and a duplicate-submission guard.

If no command is specified, the interactive terminal form opens.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = loadSettings
	rootCmd.RunE = runForm

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: OS config directory, or $CONTACTFORM_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); empty keeps logging silent")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&draftBackend, "draft-backend", "", "Draft backend (pebble, file, memory)")
	rootCmd.PersistentFlags().StringVar(&draftPath, "draft-path", "", "Draft directory (default: OS data directory)")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Color theme (light, dark)")

	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads .env, the config file and the environment, then applies
// flag overrides and starts logging.
func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("draft-backend") {
		cfg.Draft.Backend = draftBackend
	}
	if flags.Changed("draft-path") {
		cfg.Draft.Path = draftPath
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = themeFlag
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	settings = cfg

	output := cfg.Log.File
	if output == "" && isFormCommand(cmd) {
		// stdout belongs to the alt-screen
		logging.SetLogger(zap.NewNop())
		return nil
	}
	if err := logging.InitializeWithOutput(cfg.Log.Level, output); err != nil {
		return err
	}
	return nil
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Load()
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvedConfigPath is where config commands read and write.
func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func isFormCommand(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == formCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contactform %s (commit: %s)\n", version.Version, version.Commit)
	},
}
