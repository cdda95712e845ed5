// Package config manages the contactform preferences file.
//
// The file is YAML, versioned, and stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/contactform/config.yaml or $HOME/.config/contactform/config.yaml
//   - macOS: $HOME/.config/contactform/config.yaml
//   - Windows: %LOCALAPPDATA%\contactform\config.yaml
//
// Drafts default to the OS data directory (see GetDataDir) unless draft.path
// is set.
//
// # Precedence
//
// Built-in defaults < config file < CONTACTFORM_* environment < flags.
// The CLI loads a .env file from the working directory before reading the
// environment.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	cfg.UI.Theme = "dark"
//	if err := cfg.Save(); err != nil {
//	    return err
//	}
package config
