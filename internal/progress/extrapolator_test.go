package progress

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type harness struct {
	clock   *fakeClock
	timers  []*fakeTimer
	resyncs []bool
	ex      *Extrapolator
}

func newHarness(maxPostEnd int) *harness {
	h := &harness{clock: &fakeClock{now: time.Unix(1_700_000_000, 0)}}
	h.ex = New(Options{
		Now: h.clock.Now,
		AfterFunc: func(d time.Duration, f func()) Timer {
			t := &fakeTimer{fn: f}
			h.timers = append(h.timers, t)
			return t
		},
		MaxPostEndTicks: maxPostEnd,
		OnResync:        func(full bool) { h.resyncs = append(h.resyncs, full) },
	})
	return h
}

func (h *harness) fire() {
	for _, t := range h.timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func TestTick_AdvancesByElapsedWallTime(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(10_000, 200_000, false)

	h.clock.Advance(1500 * time.Millisecond)
	if got := h.ex.Tick(); got.PositionMs != 11_500 {
		t.Fatalf("PositionMs = %d, want 11500", got.PositionMs)
	}
}

func TestTick_PausedOrUnknownDurationIsNoop(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(10_000, 200_000, true)
	h.clock.Advance(5 * time.Second)
	if got := h.ex.Tick(); got.PositionMs != 10_000 {
		t.Fatalf("paused PositionMs = %d, want 10000", got.PositionMs)
	}

	h.ex.Resync(10_000, 0, false)
	h.clock.Advance(5 * time.Second)
	if got := h.ex.Tick(); got.PositionMs != 10_000 {
		t.Fatalf("zero-duration PositionMs = %d, want 10000", got.PositionMs)
	}
}

func TestTick_ClampsAtEndAndRequestsOneRefresh(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(199_000, 200_000, false)

	h.clock.Advance(5 * time.Second)
	got := h.ex.Tick()
	if got.PositionMs != 200_000 {
		t.Fatalf("PositionMs = %d, want 200000", got.PositionMs)
	}
	if len(h.timers) != 1 {
		t.Fatalf("scheduled %d refreshes, want 1", len(h.timers))
	}

	for i := 0; i < 3; i++ {
		h.clock.Advance(time.Second)
		h.ex.Tick()
	}
	if len(h.timers) != 1 {
		t.Fatalf("scheduled %d refreshes after more ticks, want 1", len(h.timers))
	}

	h.fire()
	if len(h.resyncs) != 1 || h.resyncs[0] {
		t.Fatalf("resync requests = %v, want exactly one partial refresh", h.resyncs)
	}
}

func TestTick_StalledEndForcesFullResync(t *testing.T) {
	h := newHarness(3)
	h.ex.Resync(199_900, 200_000, false)

	h.clock.Advance(time.Second)
	h.ex.Tick() // crossing
	for i := 0; i < 3; i++ {
		h.clock.Advance(time.Second)
		h.ex.Tick()
	}
	if len(h.resyncs) != 1 || !h.resyncs[0] {
		t.Fatalf("resync requests = %v, want one full resync", h.resyncs)
	}
}

func TestTick_NegativeElapsedDoesNotGoBackwards(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(50_000, 200_000, false)
	h.clock.Advance(-10 * time.Second)
	if got := h.ex.Tick(); got.PositionMs != 50_000 {
		t.Fatalf("PositionMs = %d after clock skew, want 50000", got.PositionMs)
	}
}

func TestTick_Monotonic(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(0, 10_000, false)
	last := int64(0)
	steps := []time.Duration{300, -200, 5000, 0, 7000, 1000}
	for _, step := range steps {
		h.clock.Advance(step * time.Millisecond)
		got := h.ex.Tick()
		if got.PositionMs < last {
			t.Fatalf("position went backwards: %d < %d", got.PositionMs, last)
		}
		if got.PositionMs > got.TotalMs {
			t.Fatalf("position %d exceeds total %d", got.PositionMs, got.TotalMs)
		}
		last = got.PositionMs
	}
}

func TestResync_Dominates(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(0, 300_000, false)
	h.clock.Advance(42 * time.Second)
	h.ex.Tick()

	h.ex.Resync(12_345, 300_000, false)
	if got := h.ex.Progress(); got.PositionMs != 12_345 {
		t.Fatalf("PositionMs = %d after resync, want 12345", got.PositionMs)
	}
}

func TestResync_NewTrackCancelsPendingRefresh(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(199_000, 200_000, false)
	h.clock.Advance(2 * time.Second)
	h.ex.Tick()

	h.ex.Resync(0, 180_000, false)
	if !h.timers[0].stopped {
		t.Fatalf("pending refresh not cancelled by fresh snapshot")
	}
	h.fire()
	if len(h.resyncs) != 0 {
		t.Fatalf("resync requests = %v, want none", h.resyncs)
	}
}

func TestResync_ClampsOutOfRangeInput(t *testing.T) {
	h := newHarness(0)
	h.ex.Resync(-5, 1000, false)
	if got := h.ex.Progress().PositionMs; got != 0 {
		t.Fatalf("PositionMs = %d, want 0", got)
	}
	h.ex.Resync(5000, 1000, false)
	if got := h.ex.Progress().PositionMs; got != 1000 {
		t.Fatalf("PositionMs = %d, want 1000", got)
	}
}

func TestFormatTime(t *testing.T) {
	cases := []struct {
		name      string
		ms, total int64
		want      string
	}{
		{"zero", 0, 0, "0:00"},
		{"negative", -10, 0, "0:00"},
		{"seconds", 9_000, 200_000, "0:09"},
		{"minutes", 201_000, 200_000, "3:21"},
		{"hour reference", 61_000, 3_700_000, "0:01:01"},
		{"hours", 3_723_000, 3_723_000, "1:02:03"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTime(tc.ms, tc.total); got != tc.want {
				t.Fatalf("FormatTime(%d, %d) = %q, want %q", tc.ms, tc.total, got, tc.want)
			}
		})
	}
}

func TestProgress_PercentAndLabel(t *testing.T) {
	p := Progress{PositionMs: 50_000, TotalMs: 200_000}
	if p.Percent() != 0.25 {
		t.Fatalf("Percent = %v, want 0.25", p.Percent())
	}
	if p.Label() != "0:50 / 3:20" {
		t.Fatalf("Label = %q", p.Label())
	}
	if (Progress{}).Percent() != 0 {
		t.Fatalf("zero Progress Percent should be 0")
	}
}
