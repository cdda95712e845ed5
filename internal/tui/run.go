package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
)

// programRef lets the scheduler post to a program created after it.
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) set(p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

func (r *programRef) post(fn func()) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p == nil {
		logging.Debug("Scheduled task dropped, program not running")
		return
	}
	p.Send(taskMsg{run: fn})
}

// Run shows the interactive form until the user quits or ctx is cancelled.
// Timers fire on the Bubble Tea update loop, so the controller never runs
// concurrently with key handling.
func Run(ctx context.Context, opts Options) error {
	ref := &programRef{}
	if opts.Scheduler == nil {
		opts.Scheduler = form.NewLoopScheduler(ref.post)
	}

	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	ref.set(p)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.ctl.Close()
	} else {
		model.ctl.Close()
	}
	ref.set(nil)

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("form exited: %w", err)
	}
	return nil
}
