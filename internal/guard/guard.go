// Package guard rejects resubmission of an identical message inside a
// cooldown window.
//
// Checking is side-effect-free. Memory is only updated by Record, which the
// form calls once a submission has actually completed:
//
//	if g.Check(msg, now) == guard.Allow {
//	    // ... submit ...
//	    g.Record(msg, time.Now())
//	}
package guard

import (
	"strings"
	"time"
)

// DefaultCooldown is the window during which an identical message is rejected.
const DefaultCooldown = 10 * time.Second

// Decision is the outcome of Check.
type Decision int

const (
	Allow Decision = iota
	Reject
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Guard holds the memory of the last successful submission. It belongs to a
// single form session and is not safe for concurrent use.
type Guard struct {
	cooldown     time.Duration
	lastMessage  string
	lastSubmitAt time.Time
}

// New creates a Guard. A non-positive cooldown uses DefaultCooldown.
func New(cooldown time.Duration) *Guard {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Guard{cooldown: cooldown}
}

// Cooldown returns the configured window.
func (g *Guard) Cooldown() time.Duration {
	return g.cooldown
}

// Check rejects when the trimmed message equals the last recorded one and
// less than the cooldown has elapsed since it was recorded.
func (g *Guard) Check(message string, now time.Time) Decision {
	if g.lastSubmitAt.IsZero() {
		return Allow
	}
	if strings.TrimSpace(message) != g.lastMessage {
		return Allow
	}
	if now.Sub(g.lastSubmitAt) < g.cooldown {
		return Reject
	}
	return Allow
}

// Record remembers message as the last successful submission at now.
func (g *Guard) Record(message string, now time.Time) {
	g.lastMessage = strings.TrimSpace(message)
	g.lastSubmitAt = now
}

// Last returns the remembered message and time.
func (g *Guard) Last() (string, time.Time) {
	return g.lastMessage, g.lastSubmitAt
}
