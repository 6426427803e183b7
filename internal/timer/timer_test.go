package timer

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeTimer() (*Timer, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	return New(WithClock(clock)), clock
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "zero", in: 0, want: "00:00"},
		{name: "negative", in: -5 * time.Second, want: "00:00"},
		{name: "sub second", in: 999 * time.Millisecond, want: "00:00"},
		{name: "minutes", in: 2*time.Minute + 5*time.Second, want: "02:05"},
		{name: "just under hour", in: 59*time.Minute + 59*time.Second, want: "59:59"},
		{name: "hours", in: time.Hour + 2*time.Minute + 3*time.Second, want: "01:02:03"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.in); got != tc.want {
				t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTimerBeforeStart(t *testing.T) {
	timer, clock := newFakeTimer()
	clock.advance(time.Minute)

	if timer.Started() || timer.Running() {
		t.Fatalf("new timer should not be started")
	}
	if got := timer.Tick(); got != "00:00" {
		t.Fatalf("Tick before start = %q, want 00:00", got)
	}
	if timer.Elapsed() != 0 {
		t.Fatalf("Elapsed before start = %v", timer.Elapsed())
	}
}

func TestTimerStartIsIdempotent(t *testing.T) {
	timer, clock := newFakeTimer()
	timer.Start()
	startedAt := timer.StartedAt()
	gen := timer.Generation()

	clock.advance(10 * time.Second)
	timer.Start()

	if !timer.StartedAt().Equal(startedAt) {
		t.Fatalf("second Start moved start time")
	}
	if timer.Generation() != gen {
		t.Fatalf("second Start changed generation")
	}
	if got := timer.Tick(); got != "00:10" {
		t.Fatalf("Tick = %q, want 00:10", got)
	}
}

func TestTimerStopRetainsValue(t *testing.T) {
	timer, clock := newFakeTimer()
	timer.Start()
	clock.advance(65 * time.Second)
	timer.Stop()
	clock.advance(time.Hour)

	if got := timer.Tick(); got != "01:05" {
		t.Fatalf("Tick after stop = %q, want 01:05", got)
	}
	if timer.Elapsed() != 65*time.Second {
		t.Fatalf("Elapsed after stop = %v", timer.Elapsed())
	}

	gen := timer.Generation()
	timer.Stop()
	if timer.Generation() != gen {
		t.Fatalf("second Stop changed generation")
	}

	timer.Start()
	if timer.Running() {
		t.Fatalf("Start after Stop without Reset should not restart")
	}
}

func TestTimerResetAllowsFreshStart(t *testing.T) {
	timer, clock := newFakeTimer()
	timer.Start()
	clock.advance(30 * time.Second)
	before := timer.Generation()
	timer.Reset()

	if timer.Started() || timer.Running() {
		t.Fatalf("Reset should clear start state")
	}
	if timer.Generation() == before {
		t.Fatalf("Reset should bump generation")
	}
	if got := timer.Display(); got != "00:00" {
		t.Fatalf("Display after reset = %q", got)
	}

	clock.advance(time.Minute)
	timer.Start()
	clock.advance(3 * time.Second)
	if got := timer.Tick(); got != "00:03" {
		t.Fatalf("Tick after restart = %q, want 00:03", got)
	}
}
