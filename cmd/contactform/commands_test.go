package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/contactform/internal/formerr"
	"github.com/muurk/contactform/internal/validation"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	tests := []struct {
		name      string
		fields    validation.Fields
		wantValid bool
		wantField validation.Role
	}{
		{
			name:      "All valid",
			fields:    validation.Fields{Name: "Ana Lopez", Email: "ana@example.com", Message: "Hello there, friend."},
			wantValid: true,
		},
		{
			name:      "Short name reported first",
			fields:    validation.Fields{Name: "A", Email: "bad", Message: "hi"},
			wantField: validation.RoleName,
		},
		{
			name:      "Bad email",
			fields:    validation.Fields{Name: "Ana", Email: "ana@example", Message: "Hello there"},
			wantField: validation.RoleEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "validate", "--config", cfg,
				"--name", tt.fields.Name,
				"--email", tt.fields.Email,
				"--message", tt.fields.Message,
				"--format", "json",
			)

			var report reportJSON
			if jerr := json.Unmarshal([]byte(out), &report); jerr != nil {
				t.Fatalf("output is not JSON: %v\n%s", jerr, out)
			}
			if report.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", report.Valid, tt.wantValid)
			}
			if len(report.Fields) != 3 {
				t.Errorf("got %d fields, want 3", len(report.Fields))
			}

			if tt.wantValid {
				if err != nil {
					t.Errorf("Execute() error = %v", err)
				}
				return
			}
			if !formerr.IsValidationError(err) {
				t.Fatalf("Execute() error = %v, want validation error", err)
			}
			var fe *formerr.Error
			if !errors.As(err, &fe) || fe.Field != string(tt.wantField) {
				t.Errorf("error field = %v, want %s", err, tt.wantField)
			}
		})
	}
}

func TestValidateCommandRejectsUnknownFormat(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	_, err := execute(t, "validate", "--config", cfg,
		"--name", "Ana", "--email", "ana@example.com", "--message", "Hello there",
		"--format", "xml",
	)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Execute() error = %v, want unknown format", err)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := execute(t, "config", "init", "--config", cfg); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(cfg); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := execute(t, "config", "init", "--config", cfg); err == nil {
		t.Error("second config init without --force should fail")
	}

	out, err := execute(t, "config", "path", "--config", cfg)
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(out) != cfg {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), cfg)
	}
}

func TestConfigShowSurvivesBrokenFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("version: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "config", "show", "--config", cfg); !formerr.IsConfigError(err) {
		t.Errorf("config show error = %v, want config error", err)
	}
	if _, err := execute(t, "config", "path", "--config", cfg); err != nil {
		t.Errorf("config path on broken file error = %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	out, err := execute(t, "version", "--config", cfg)
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "contactform ") {
		t.Errorf("version output = %q", out)
	}
}
