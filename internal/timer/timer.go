// Package timer measures elapsed quiz time for display.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Option func(*Timer)

func WithClock(clock Clock) Option {
	return func(t *Timer) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// Timer tracks wall-clock time from Start until Stop.
//
// Display values are recomputed lazily. Presentation layers that refresh on
// a cadence tag their tick messages with Generation and drop ticks whose
// generation no longer matches, so a Stop or Reset cancels the pending chain.
type Timer struct {
	mu         sync.Mutex
	clock      Clock
	startedAt  time.Time
	stoppedAt  time.Time
	running    bool
	display    string
	generation uint64
}

func New(opts ...Option) *Timer {
	t := &Timer{
		clock:   systemClock{},
		display: Format(0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start records the start time once. It has no effect on a running timer or
// on a stopped timer that has not been Reset.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.startedAt.IsZero() {
		return
	}
	t.startedAt = t.clock.Now()
	t.stoppedAt = time.Time{}
	t.running = true
	t.generation++
	t.display = Format(0)
}

// Tick recomputes the display string while running and returns it.
func (t *Timer) Tick() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.display = Format(t.clock.Now().Sub(t.startedAt))
	}
	return t.display
}

// Display returns the current elapsed string, recomputing it while running.
func (t *Timer) Display() string {
	return t.Tick()
}

// Stop freezes the elapsed value. Calling Stop twice is harmless.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.stoppedAt = t.clock.Now()
	t.display = Format(t.stoppedAt.Sub(t.startedAt))
	t.running = false
	t.generation++
}

// Reset stops the timer and forgets the start time.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startedAt = time.Time{}
	t.stoppedAt = time.Time{}
	t.running = false
	t.display = Format(0)
	t.generation++
}

func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.startedAt.IsZero():
		return 0
	case t.running:
		return t.clock.Now().Sub(t.startedAt)
	default:
		return t.stoppedAt.Sub(t.startedAt)
	}
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Started reports whether Start was called since construction or the last Reset.
func (t *Timer) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.startedAt.IsZero()
}

// StartedAt returns the zero time before the first Start.
func (t *Timer) StartedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt
}

// Generation changes on every Start, Stop and Reset that alters state.
func (t *Timer) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// Format renders d as MM:SS, or HH:MM:SS from one hour on.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
