package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/muurk/contactform/internal/formerr"
)

const (
	appName    = "contactform"
	configFile = "config.yaml"
)

// Environment variables that override the file
const (
	EnvConfigPath   = "CONTACTFORM_CONFIG"
	EnvDraftBackend = "CONTACTFORM_DRAFT_BACKEND"
	EnvDraftPath    = "CONTACTFORM_DRAFT_PATH"
	EnvTheme        = "CONTACTFORM_THEME"
	EnvHost         = "CONTACTFORM_HOST"
	EnvPort         = "CONTACTFORM_PORT"
	EnvLogLevel     = "CONTACTFORM_LOG_LEVEL"
)

// Mutex for file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/contactform or $HOME/.config/contactform
//   - macOS: $HOME/.config/contactform
//   - Windows: %LOCALAPPDATA%\contactform
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return windowsAppDir()

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
}

// GetDataDir returns the OS-appropriate directory for drafts:
//   - Linux: $XDG_DATA_HOME/contactform or $HOME/.local/share/contactform
//   - macOS: $HOME/Library/Application Support/contactform
//   - Windows: %LOCALAPPDATA%\contactform
func GetDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return windowsAppDir()

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, "Library", "Application Support", appName), nil

	default:
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
}

func windowsAppDir() (string, error) {
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, appName), nil
	}
	userProfile := os.Getenv("USERPROFILE")
	if userProfile == "" {
		return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
	}
	return filepath.Join(userProfile, "AppData", "Local", appName), nil
}

func xdgDir(envVar, homeRel string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, homeRel, appName), nil
}

// GetConfigPath returns the path of the preferences file. CONTACTFORM_CONFIG
// overrides the OS location.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the preferences file at the default path and applies
// environment overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the preferences file at path without environment overrides.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewConfig(), nil
		}
		return nil, formerr.NewConfigError("failed to read config file", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, formerr.NewConfigError("failed to parse config file", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, formerr.NewConfigError(
			fmt.Sprintf("unsupported config version: %d (expected %d)", cfg.Version, CurrentVersion), nil)
	}

	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, formerr.NewConfigError("invalid config file "+path, err)
	}
	return &cfg, nil
}

// ApplyEnv overlays CONTACTFORM_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDraftBackend); v != "" {
		c.Draft.Backend = v
	}
	if v := os.Getenv(EnvDraftPath); v != "" {
		c.Draft.Path = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return formerr.NewConfigError("invalid "+EnvPort, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if err := c.Validate(); err != nil {
		return formerr.NewConfigError("invalid environment override", err)
	}
	return nil
}

// DraftPath returns the configured draft location or the OS data directory.
func (c *Config) DraftPath() (string, error) {
	if c.Draft.Path != "" {
		return c.Draft.Path, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "drafts"), nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path. The write goes to a temporary file
// first and is renamed into place.
func (c *Config) SaveTo(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# contactform preferences
# Durations use Go syntax (1400ms, 8s). Environment variables
# CONTACTFORM_* and command-line flags take precedence.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
