package validation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestValidateName tests name validation
func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantMsg string
	}{
		{"Invalid: empty", "", false, MsgNameRequired},
		{"Invalid: whitespace only", "   \t", false, MsgNameRequired},
		{"Invalid: one char", "A", false, MsgNameTooShort},
		{"Invalid: one char padded", "  A  ", false, MsgNameTooShort},
		{"Valid: two chars", "Al", true, ""},
		{"Valid: full name", "Ada Lovelace", true, ""},
		{"Valid: multibyte", "Zoë", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateName(tt.input)
			if got.Valid != tt.wantOK || got.Message != tt.wantMsg {
				t.Errorf("ValidateName(%q) = %+v, want valid=%v msg=%q", tt.input, got, tt.wantOK, tt.wantMsg)
			}
		})
	}
}

// TestValidateEmail tests email validation
func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantMsg string
	}{
		{"Invalid: empty", "", false, MsgEmailRequired},
		{"Invalid: spaces", "   ", false, MsgEmailRequired},
		{"Invalid: no at", "x", false, MsgEmailInvalid},
		{"Invalid: no dot", "a@b", false, MsgEmailInvalid},
		{"Invalid: empty local", "@b.c", false, MsgEmailInvalid},
		{"Invalid: empty suffix", "a@b.", false, MsgEmailInvalid},
		{"Invalid: inner space", "a b@c.de", false, MsgEmailInvalid},
		{"Invalid: double at", "a@@b.c", false, MsgEmailInvalid},
		{"Invalid: no-break space", "a\u00a0b@c.de", false, MsgEmailInvalid},
		{"Invalid: vertical tab", "a\vb@c.de", false, MsgEmailInvalid},
		{"Invalid: em space", "a\u2003b@c.de", false, MsgEmailInvalid},
		{"Invalid: ideographic space in domain", "a@c\u3000d.de", false, MsgEmailInvalid},
		{"Invalid: line separator in suffix", "a@c.d\u2028e", false, MsgEmailInvalid},
		{"Invalid: byte order mark", "a\ufeffb@c.de", false, MsgEmailInvalid},
		{"Valid: non-ASCII letters", "jos\u00e9@caf\u00e9.fr", true, ""},
		{"Valid: simple", "b@c.de", true, ""},
		{"Valid: padded", "  b@c.de  ", true, ""},
		{"Valid: subdomain", "a.b@mail.example.org", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEmail(tt.input)
			if got.Valid != tt.wantOK || got.Message != tt.wantMsg {
				t.Errorf("ValidateEmail(%q) = %+v, want valid=%v msg=%q", tt.input, got, tt.wantOK, tt.wantMsg)
			}
		})
	}
}

// TestValidateMessage tests message validation
func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantMsg string
	}{
		{"Invalid: empty", "", false, MsgMessageRequired},
		{"Invalid: newlines only", "\n\n", false, MsgMessageRequired},
		{"Invalid: five chars", "hello", false, MsgMessageTooShort},
		{"Invalid: five chars padded", "  hello  ", false, MsgMessageTooShort},
		{"Valid: six chars", "hello!", true, ""},
		{"Valid: long", strings.Repeat("x", 300), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateMessage(tt.input)
			if got.Valid != tt.wantOK || got.Message != tt.wantMsg {
				t.Errorf("ValidateMessage(%q) = %+v, want valid=%v msg=%q", tt.input, got, tt.wantOK, tt.wantMsg)
			}
		})
	}
}

// TestValidityMatchesTrimmedLength checks the length rules over a range of
// padded inputs.
func TestValidityMatchesTrimmedLength(t *testing.T) {
	for n := 0; n <= 8; n++ {
		core := strings.Repeat("a", n)
		for _, pad := range []string{"", " ", "\t ", "\n"} {
			s := pad + core + pad
			if got := ValidateName(s).Valid; got != (n >= 2) {
				t.Errorf("ValidateName(%q).Valid = %v, want %v", s, got, n >= 2)
			}
			if got := ValidateMessage(s).Valid; got != (n >= 6) {
				t.Errorf("ValidateMessage(%q).Valid = %v, want %v", s, got, n >= 6)
			}
		}
	}
}

func TestValidateDispatch(t *testing.T) {
	if !Validate(RoleName, "Al").Valid {
		t.Error("Validate(name) should delegate to ValidateName")
	}
	if Validate(RoleEmail, "nope").Message != MsgEmailInvalid {
		t.Error("Validate(email) should delegate to ValidateEmail")
	}
	if Validate(RoleMessage, "hi").Message != MsgMessageTooShort {
		t.Error("Validate(message) should delegate to ValidateMessage")
	}
	if Validate(Role("phone"), "123").Valid {
		t.Error("unknown role should be invalid")
	}
}

func TestValidateAllFirstInvalid(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   Role
	}{
		{"all valid", Fields{"Ada", "a@b.co", "hello!"}, ""},
		{"name first", Fields{"", "x", "hello!"}, RoleName},
		{"email second", Fields{"Ada", "x", ""}, RoleEmail},
		{"message last", Fields{"Ada", "a@b.co", "hi"}, RoleMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, first := ValidateAll(tt.fields)
			if first != tt.want {
				t.Errorf("first invalid = %q, want %q", first, tt.want)
			}
			if len(results) != 3 {
				t.Errorf("got %d results, want 3", len(results))
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, in := range []string{"name", "EMAIL", " message "} {
		if _, err := ParseRole(in); err != nil {
			t.Errorf("ParseRole(%q) error = %v", in, err)
		}
	}
	if _, err := ParseRole("subject"); err == nil {
		t.Error("ParseRole(subject) should fail")
	}
}

func TestFieldsSetGet(t *testing.T) {
	var f Fields
	if !f.IsEmpty() {
		t.Error("zero Fields should be empty")
	}
	for _, role := range Roles {
		if !f.Set(role, string(role)+"-value") {
			t.Fatalf("Set(%q) returned false", role)
		}
	}
	for _, role := range Roles {
		if got := f.Get(role); got != string(role)+"-value" {
			t.Errorf("Get(%q) = %q", role, got)
		}
	}
	if f.Set(Role("phone"), "x") {
		t.Error("Set with unknown role should return false")
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name  string
		role  Role
		input string
		want  int
	}{
		{"Short name untouched", RoleName, "Ada", 3},
		{"Name at cap", RoleName, strings.Repeat("a", MaxNameLength), MaxNameLength},
		{"Long name cut", RoleName, strings.Repeat("a", MaxNameLength+5), MaxNameLength},
		{"Email cut in characters", RoleEmail, strings.Repeat("é", MaxEmailLength+1), MaxEmailLength},
		{"Message cut", RoleMessage, strings.Repeat("x", 20000), MaxMessageLength},
		{"Unknown role untouched", Role("phone"), strings.Repeat("1", 500), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(tt.role, tt.input)
			if n := utf8.RuneCountInString(got); n != tt.want {
				t.Errorf("Clip() kept %d characters, want %d", n, tt.want)
			}
			if !strings.HasPrefix(tt.input, got) {
				t.Error("Clip() result is not a prefix of the input")
			}
		})
	}
}

func TestFieldsClipped(t *testing.T) {
	f := Fields{Name: "Ada", Email: "a@b.co", Message: strings.Repeat("m", MaxMessageLength+1)}
	got := f.Clipped()
	if got.Name != f.Name || got.Email != f.Email {
		t.Errorf("Clipped() changed short fields: %+v", got)
	}
	if n := utf8.RuneCountInString(got.Message); n != MaxMessageLength {
		t.Errorf("Clipped() message length = %d, want %d", n, MaxMessageLength)
	}
}
