package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/contactform/internal/formerr"
	"github.com/muurk/contactform/internal/validation"
)

func TestNewReport(t *testing.T) {
	tests := []struct {
		name      string
		fields    validation.Fields
		wantValid bool
		wantFirst validation.Role
	}{
		{"All valid", validation.Fields{Name: "Ada", Email: "ada@example.org", Message: "hello!"}, true, ""},
		{"Name missing", validation.Fields{Email: "x", Message: "hello!"}, false, validation.RoleName},
		{"Email bad", validation.Fields{Name: "Ada", Email: "x", Message: "hello!"}, false, validation.RoleEmail},
		{"Message short", validation.Fields{Name: "Ada", Email: "a@b.co", Message: "hi"}, false, validation.RoleMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(tt.fields, validation.CharBudget)
			if r.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", r.Valid(), tt.wantValid)
			}
			first, ok := r.FirstInvalid()
			if first != tt.wantFirst || ok == tt.wantValid {
				t.Errorf("FirstInvalid() = %q, %v, want %q", first, ok, tt.wantFirst)
			}
			if len(r.Fields) != 3 || r.Fields[0].Role != validation.RoleName {
				t.Errorf("fields not in focus order: %+v", r.Fields)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	r := NewReport(validation.Fields{Name: "Ada", Email: "nope", Message: strings.Repeat("x", 260)}, validation.CharBudget)
	out := RenderReport(r, 80)

	for _, want := range []string{"name", "email", validation.MsgEmailInvalid, "-10 chars left", "Ada (nope)"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCompletionBar(t *testing.T) {
	if bar := RenderCompletionBar(60, 80); !strings.HasSuffix(bar, " 60%") {
		t.Errorf("RenderCompletionBar(60) = %q, want percentage suffix", bar)
	}
}

func TestRenderBoxes(t *testing.T) {
	details := []Detail{{"Key", "contact_form_draft_v1"}, {"Saved", "yesterday"}}

	success := RenderSuccessBox("Draft found", details, 80)
	if !strings.Contains(success, "SUCCESS") || !strings.Contains(success, "contact_form_draft_v1") {
		t.Errorf("success box missing content:\n%s", success)
	}
	if strings.Index(success, "Key:") > strings.Index(success, "Saved:") {
		t.Error("details rendered out of order")
	}

	warn := RenderWarningBox("No draft", nil, 40)
	if !strings.Contains(warn, "WARNING") {
		t.Errorf("warning box missing title:\n%s", warn)
	}

	failure := RenderErrorBox("Draft unreadable", errors.New("boom"), []string{"run draft clear"}, 80)
	for _, want := range []string{"FAILED", "Error: boom", "Troubleshooting:", "run draft clear"} {
		if !strings.Contains(failure, want) {
			t.Errorf("error box missing %q:\n%s", want, failure)
		}
	}
}

func TestSplitHint(t *testing.T) {
	hint := formerr.TroubleshootingHint(formerr.NewMalformedDraftError("bad", nil))
	tips := SplitHint(hint)

	if len(tips) == 0 {
		t.Fatal("SplitHint() returned nothing")
	}
	for _, tip := range tips {
		if strings.HasPrefix(tip, "•") || tip == "Troubleshooting:" {
			t.Errorf("tip not cleaned: %q", tip)
		}
	}
	if !strings.Contains(strings.Join(tips, "\n"), "contactform draft clear") {
		t.Errorf("tips = %v, want the draft clear advice", tips)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).WithWidth(100)

	p.PrintHeader("Validate", "contactform validate", Detail{"Format", "text"})
	p.PrintError("Drafts unavailable", formerr.NewStorageError("open failed", nil))

	out := buf.String()
	if !strings.Contains(out, "VALIDATE") {
		t.Errorf("header not rendered:\n%s", out)
	}
	if !strings.Contains(out, "pebble lock") {
		t.Errorf("storage hint not included:\n%s", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmDraftClear(strings.NewReader(tt.input), &out, 60)
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "CLEAR SAVED DRAFT") {
				t.Error("warning box not shown")
			}
		})
	}
}
