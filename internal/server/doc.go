// Package server serves the contact form to browsers over HTTP and WebSocket.
//
// Routes:
//
//	GET /         the form page (embedded, no build step)
//	GET /ws       WebSocket session; ?client=<id> selects a per-browser draft
//	GET /healthz  JSON status with the build version and open session count
//
// # Sessions
//
// Every WebSocket connection gets its own form.Controller, submission guard
// and event loop goroutine. The read pump decodes client events and posts
// them to the loop; controller output is queued to a write pump that also
// sends pings. Timers use form.LoopScheduler, so scheduled callbacks land on
// the same loop as client events. Sessions share only the draft KV.
//
// # Protocol
//
// Client to server:
//
//	{"type":"edit","field":"name","value":"Ada"}
//	{"type":"blur","field":"email"}
//	{"type":"advance","field":"name"}
//	{"type":"submit"} {"type":"save"} {"type":"clear"} {"type":"theme"}
//
// Server to client messages mirror form.Surface: field, metrics, reset,
// focus, busy, warning, success, draft and theme, plus error for malformed
// input.
//
// # Graceful Shutdown
//
// Start returns when its context is cancelled: the HTTP listener stops,
// every session receives a close frame and its controller cancels pending
// timers, then Start waits for the session goroutines to exit.
package server
