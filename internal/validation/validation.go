package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Role identifies which form field a value belongs to.
type Role string

const (
	RoleName    Role = "name"
	RoleEmail   Role = "email"
	RoleMessage Role = "message"
)

// Roles lists the fields in focus order. The first invalid field in this
// order receives focus after a rejected submit.
var Roles = []Role{RoleName, RoleEmail, RoleMessage}

// ParseRole converts a wire/CLI name into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleName:
		return RoleName, nil
	case RoleEmail:
		return RoleEmail, nil
	case RoleMessage:
		return RoleMessage, nil
	}
	return "", fmt.Errorf("unknown field %q (expected name, email or message)", s)
}

// Field limits
const (
	MinNameLength    = 2
	MinMessageLength = 6

	// Input caps in characters. Reaching the cap on name or email moves
	// focus to the next field. The message cap sits far above CharBudget;
	// going over the budget is still allowed.
	MaxNameLength    = 120
	MaxEmailLength   = 254
	MaxMessageLength = 10000
)

// MaxLength returns the input cap for role, or 0 for an unknown role.
func MaxLength(role Role) int {
	switch role {
	case RoleName:
		return MaxNameLength
	case RoleEmail:
		return MaxEmailLength
	case RoleMessage:
		return MaxMessageLength
	}
	return 0
}

// Clip cuts text to the input cap for role, counting characters.
func Clip(role Role, text string) string {
	limit := MaxLength(role)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// User-facing messages
const (
	MsgNameRequired    = "Name is required."
	MsgNameTooShort    = "Use at least 2 characters."
	MsgEmailRequired   = "Email is required."
	MsgEmailInvalid    = "Enter a valid email address."
	MsgMessageRequired = "Message is required."
	MsgMessageTooShort = "Message is too short."
)

// emailPattern: local part, "@", domain, ".", suffix; none may contain
// whitespace or "@". RE2's \s is ASCII only, so vertical tab, Unicode
// separators and the BOM are listed explicitly.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Result is the outcome of validating one field value.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result { return Result{Valid: true} }

func fail(msg string) Result { return Result{Valid: false, Message: msg} }

// ValidateName requires at least 2 characters after trimming.
func ValidateName(text string) Result {
	v := strings.TrimSpace(text)
	if v == "" {
		return fail(MsgNameRequired)
	}
	if utf8.RuneCountInString(v) < MinNameLength {
		return fail(MsgNameTooShort)
	}
	return ok()
}

// ValidateEmail requires a trimmed value of the shape local@domain.suffix.
func ValidateEmail(text string) Result {
	v := strings.TrimSpace(text)
	if v == "" {
		return fail(MsgEmailRequired)
	}
	if !emailPattern.MatchString(v) {
		return fail(MsgEmailInvalid)
	}
	return ok()
}

// ValidateMessage requires at least 6 characters after trimming.
func ValidateMessage(text string) Result {
	v := strings.TrimSpace(text)
	if v == "" {
		return fail(MsgMessageRequired)
	}
	if utf8.RuneCountInString(v) < MinMessageLength {
		return fail(MsgMessageTooShort)
	}
	return ok()
}

// Validate dispatches to the validator for role. Unknown roles are invalid.
func Validate(role Role, text string) Result {
	switch role {
	case RoleName:
		return ValidateName(text)
	case RoleEmail:
		return ValidateEmail(text)
	case RoleMessage:
		return ValidateMessage(text)
	default:
		return fail(fmt.Sprintf("unknown field %q", role))
	}
}

// Fields holds the raw text of all three fields.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Get returns the raw value for role.
func (f Fields) Get(role Role) string {
	switch role {
	case RoleName:
		return f.Name
	case RoleEmail:
		return f.Email
	case RoleMessage:
		return f.Message
	}
	return ""
}

// Set stores the raw value for role and reports whether role was known.
func (f *Fields) Set(role Role, text string) bool {
	switch role {
	case RoleName:
		f.Name = text
	case RoleEmail:
		f.Email = text
	case RoleMessage:
		f.Message = text
	default:
		return false
	}
	return true
}

// Clipped returns f with every value cut to its input cap.
func (f Fields) Clipped() Fields {
	return Fields{
		Name:    Clip(RoleName, f.Name),
		Email:   Clip(RoleEmail, f.Email),
		Message: Clip(RoleMessage, f.Message),
	}
}

// IsEmpty reports whether all three raw values are empty.
func (f Fields) IsEmpty() bool {
	return f.Name == "" && f.Email == "" && f.Message == ""
}

// ValidateAll validates every field and returns the results keyed by role
// together with the first invalid role in focus order ("" when all pass).
func ValidateAll(f Fields) (map[Role]Result, Role) {
	results := make(map[Role]Result, len(Roles))
	var firstInvalid Role
	for _, role := range Roles {
		r := Validate(role, f.Get(role))
		results[role] = r
		if !r.Valid && firstInvalid == "" {
			firstInvalid = role
		}
	}
	return results, firstInvalid
}
