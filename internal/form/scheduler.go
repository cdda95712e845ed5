package form

import (
	"sort"
	"sync"
	"time"
)

// Task is a scheduled callback.
type Task interface {
	// Cancel stops the task and reports whether it was still pending.
	// A cancelled task never runs, even if its timer already fired.
	Cancel() bool
}

// Scheduler creates timer tasks whose callbacks run on the session's event
// loop, never concurrently with other events.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
	Every(d time.Duration, fn func()) Task
}

// LoopScheduler arms real timers and hands each fired callback to post,
// which must run it on the event loop (tea.Program.Send, a session channel).
type LoopScheduler struct {
	post func(func())
}

// NewLoopScheduler creates a scheduler that delivers callbacks through post.
func NewLoopScheduler(post func(func())) *LoopScheduler {
	return &LoopScheduler{post: post}
}

// Now implements Scheduler
func (s *LoopScheduler) Now() time.Time {
	return time.Now()
}

type loopTask struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	done      bool
}

func (t *loopTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.done {
		return false
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

// claim is called on the loop before running a one-shot callback.
func (t *loopTask) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.done {
		return false
	}
	t.done = true
	return true
}

func (t *loopTask) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.cancelled
}

// AfterFunc implements Scheduler
func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) Task {
	t := &loopTask{}
	t.mu.Lock()
	t.timer = time.AfterFunc(d, func() {
		if !t.live() {
			return
		}
		s.post(func() {
			if t.claim() {
				fn()
			}
		})
	})
	t.mu.Unlock()
	return t
}

// Every implements Scheduler. The next run is armed from the timer before
// the current one is posted, so a callback that post drops (a program not
// yet running, a session shutting down) does not stop later runs. Runs never
// overlap because each one executes on the event loop.
func (s *LoopScheduler) Every(d time.Duration, fn func()) Task {
	t := &loopTask{}

	var arm func()
	arm = func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.cancelled {
			return
		}
		t.timer = time.AfterFunc(d, func() {
			if !t.live() {
				return
			}
			arm()
			s.post(func() {
				if t.live() {
					fn()
				}
			})
		})
	}
	arm()
	return t
}

// ManualScheduler is a Scheduler driven by Advance instead of wall time.
// Callbacks run synchronously inside Advance, in due order.
type ManualScheduler struct {
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s         *ManualScheduler
	at        time.Time
	every     time.Duration
	seq       int
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() bool {
	if t.cancelled {
		return false
	}
	for i, p := range t.s.tasks {
		if p == t {
			t.s.tasks = append(t.s.tasks[:i], t.s.tasks[i+1:]...)
			t.cancelled = true
			return true
		}
	}
	return false
}

// NewManualScheduler creates a ManualScheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now implements Scheduler
func (m *ManualScheduler) Now() time.Time {
	return m.now
}

func (m *ManualScheduler) add(d, every time.Duration, fn func()) Task {
	m.seq++
	t := &manualTask{s: m, at: m.now.Add(d), every: every, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// AfterFunc implements Scheduler
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return m.add(d, 0, fn)
}

// Every implements Scheduler
func (m *ManualScheduler) Every(d time.Duration, fn func()) Task {
	return m.add(d, d, fn)
}

// Advance moves the clock forward by d, running every task that falls due.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		if next.every > 0 {
			m.seq++
			next.at = next.at.Add(next.every)
			next.seq = m.seq
		} else {
			next.Cancel()
		}
		next.fn()
	}
	m.now = target
}

func (m *ManualScheduler) nextDue(target time.Time) *manualTask {
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at.Equal(m.tasks[j].at) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at.Before(m.tasks[j].at)
	})
	if len(m.tasks) == 0 || m.tasks[0].at.After(target) {
		return nil
	}
	return m.tasks[0]
}

// Pending returns the number of scheduled tasks.
func (m *ManualScheduler) Pending() int {
	return len(m.tasks)
}
