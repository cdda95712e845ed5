package config

import (
	"fmt"
	"time"
)

// CurrentVersion is the config file schema version.
const CurrentVersion = 1

// Config represents the entire preferences file.
type Config struct {
	Version int         `yaml:"version"`
	Draft   DraftPrefs  `yaml:"draft"`
	Submit  SubmitPrefs `yaml:"submit"`
	Form    FormPrefs   `yaml:"form"`
	UI      UIPrefs     `yaml:"ui"`
	Server  ServerPrefs `yaml:"server"`
	Log     LogPrefs    `yaml:"log"`
}

// DraftPrefs selects where drafts are kept.
type DraftPrefs struct {
	Backend          string        `yaml:"backend"`           // pebble, file or memory
	Path             string        `yaml:"path,omitempty"`    // empty = OS data directory
	AutoSaveInterval time.Duration `yaml:"autosave_interval"` // e.g. 8s
}

// SubmitPrefs tunes the simulated submission.
type SubmitPrefs struct {
	Latency  time.Duration `yaml:"latency"`  // simulated send time
	Cooldown time.Duration `yaml:"cooldown"` // duplicate message window
}

// FormPrefs holds form-level settings.
type FormPrefs struct {
	CharBudget int `yaml:"char_budget"`
}

// UIPrefs holds presentation preferences.
type UIPrefs struct {
	Theme string `yaml:"theme"` // light or dark
}

// ServerPrefs configures `contactform serve`.
type ServerPrefs struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"`          // announce over mDNS
	TLSCert   string `yaml:"tls_cert,omitempty"` // serve HTTPS when both are set
	TLSKey    string `yaml:"tls_key,omitempty"`
}

// LogPrefs configures logging. Empty level keeps logging silent.
type LogPrefs struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Draft: DraftPrefs{
			Backend:          "pebble",
			AutoSaveInterval: 8 * time.Second,
		},
		Submit: SubmitPrefs{
			Latency:  1400 * time.Millisecond,
			Cooldown: 10 * time.Second,
		},
		Form: FormPrefs{
			CharBudget: 250,
		},
		UI: UIPrefs{
			Theme: "light",
		},
		Server: ServerPrefs{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}

// fillDefaults replaces zero values left by a partial file.
func (c *Config) fillDefaults() {
	def := NewConfig()
	if c.Draft.Backend == "" {
		c.Draft.Backend = def.Draft.Backend
	}
	if c.Draft.AutoSaveInterval <= 0 {
		c.Draft.AutoSaveInterval = def.Draft.AutoSaveInterval
	}
	if c.Submit.Latency <= 0 {
		c.Submit.Latency = def.Submit.Latency
	}
	if c.Submit.Cooldown <= 0 {
		c.Submit.Cooldown = def.Submit.Cooldown
	}
	if c.Form.CharBudget <= 0 {
		c.Form.CharBudget = def.Form.CharBudget
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
}

// Validate checks values that would break the form at runtime.
func (c *Config) Validate() error {
	switch c.Draft.Backend {
	case "pebble", "file", "memory":
	default:
		return fmt.Errorf("draft.backend must be pebble, file or memory, got %q", c.Draft.Backend)
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("ui.theme must be light or dark, got %q", c.UI.Theme)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("server.tls_cert and server.tls_key must be set together")
	}
	if c.Form.CharBudget < 1 {
		return fmt.Errorf("form.char_budget must be positive, got %d", c.Form.CharBudget)
	}
	return nil
}

// ListenAddr returns host:port for the session server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
