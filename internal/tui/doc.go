// Package tui is the interactive terminal rendering of the contact form.
//
// The Model owns the Bubble Tea widgets (text inputs for name and email, a
// textarea for the message, a spinner while sending and a completion bar)
// and a form.Controller that decides everything else. Controller output
// reaches the widgets through viewState, a form.Surface that records pending
// changes which Model.sync applies after each controller call.
//
// Scheduled work (the simulated send, auto-save, draft acknowledgements) is
// posted back as taskMsg values through tea.Program.Send, so every controller
// call happens on the update loop.
//
// Layout follows RenderApplicationContainer: header with name and version,
// the form, and help text pinned to the bottom. The success notification is
// a modal placed over a dimmed background.
package tui
