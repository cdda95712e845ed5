// Package form orchestrates one contact form session.
//
// A Controller owns the raw field values, a draft.Store, a guard.Guard and
// the scheduled tasks of the session, and reports every change to a Surface.
// Concrete surfaces are the terminal UI (internal/tui) and the WebSocket
// session (internal/server); tests use a recording surface.
//
// # Submission
//
//	Idle -> Validating -> Rejected
//	                   -> GuardBlocked
//	                   -> Submitting -> Succeeded -> Idle
//
// Rejected focuses the first invalid field (name, email, message) and touches
// neither the draft store nor the guard. Submitting shows the busy indicator
// and completes after a simulated latency; no network call is made.
//
// # Field State
//
// A field whose raw text is empty is neutral while typing and on blur. A
// submit attempt marks every failing field invalid, empty ones included.
//
// # Event Loop
//
// Controllers are not safe for concurrent use. Every call, including timer
// callbacks, must run on one goroutine. LoopScheduler delivers fired timers
// through a post function so they join that goroutine; ManualScheduler runs
// them inside Advance for deterministic tests. Close cancels all tasks.
package form
