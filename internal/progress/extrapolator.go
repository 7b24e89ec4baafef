// Package progress extrapolates the playback position between snapshots.
package progress

import (
	"context"
	"sync"
	"time"
)

const (
	defaultResyncDelay     = 2 * time.Second
	defaultMaxPostEndTicks = 10
	defaultTickInterval    = 250 * time.Millisecond
)

// Progress is the locally estimated playback position.
type Progress struct {
	PositionMs int64
	TotalMs    int64
	Paused     bool
}

// Percent returns the position as a fraction in [0, 1].
func (p Progress) Percent() float64 {
	if p.TotalMs <= 0 {
		return 0
	}
	return float64(p.PositionMs) / float64(p.TotalMs)
}

// Timer is the subset of *time.Timer the extrapolator needs.
type Timer interface {
	Stop() bool
}

// Options configure an Extrapolator. Zero values use defaults.
type Options struct {
	// Now returns the wall clock. Defaults to time.Now.
	Now func() time.Time
	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer
	// ResyncDelay is how long after crossing the end of a track the
	// out-of-band refresh is requested.
	ResyncDelay time.Duration
	// MaxPostEndTicks is how many ticks may pass at the end of a track
	// without a fresh snapshot before a full resync is forced.
	MaxPostEndTicks int
	// OnResync is called when a refresh (full=false) or a full resync
	// (full=true) should be requested from the transport.
	OnResync func(full bool)
}

// Extrapolator keeps a ticking estimate of the playback position. Resync
// always wins over the local estimate.
type Extrapolator struct {
	mu sync.Mutex

	now         func() time.Time
	afterFunc   func(d time.Duration, f func()) Timer
	onResync    func(full bool)
	resyncDelay time.Duration
	maxPostEnd  int

	lastWallClock time.Time
	positionMs    int64
	totalMs       int64
	paused        bool
	postEndTicks  int
	pending       Timer
}

// New builds an Extrapolator.
func New(opts Options) *Extrapolator {
	e := &Extrapolator{
		now:         opts.Now,
		afterFunc:   opts.AfterFunc,
		onResync:    opts.OnResync,
		resyncDelay: opts.ResyncDelay,
		maxPostEnd:  opts.MaxPostEndTicks,
		paused:      true,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.afterFunc == nil {
		e.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if e.resyncDelay <= 0 {
		e.resyncDelay = defaultResyncDelay
	}
	if e.maxPostEnd <= 0 {
		e.maxPostEnd = defaultMaxPostEndTicks
	}
	e.lastWallClock = e.now()
	return e
}

// Resync replaces the local estimate with authoritative data.
func (e *Extrapolator) Resync(positionMs, totalMs int64, paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if totalMs < 0 {
		totalMs = 0
	}
	e.totalMs = totalMs
	e.positionMs = clamp(positionMs, totalMs)
	e.paused = paused
	e.lastWallClock = e.now()
	e.postEndTicks = 0
	if e.pending != nil && (totalMs == 0 || e.positionMs < totalMs) {
		e.pending.Stop()
		e.pending = nil
	}
}

// Tick advances the estimate by the wall time elapsed since the previous tick
// or resync and returns the new estimate.
func (e *Extrapolator) Tick() Progress {
	e.mu.Lock()
	if e.paused || e.totalMs <= 0 {
		e.lastWallClock = e.now()
		p := e.progressLocked()
		e.mu.Unlock()
		return p
	}

	now := e.now()
	elapsed := now.Sub(e.lastWallClock).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	e.lastWallClock = now

	next := clamp(e.positionMs+elapsed, e.totalMs)
	forceFull := false
	if next >= e.totalMs {
		if e.positionMs < e.totalMs {
			e.scheduleRefreshLocked()
		} else {
			e.postEndTicks++
			if e.postEndTicks >= e.maxPostEnd {
				e.postEndTicks = 0
				forceFull = true
			}
		}
	}
	e.positionMs = next
	p := e.progressLocked()
	onResync := e.onResync
	e.mu.Unlock()

	if forceFull && onResync != nil {
		onResync(true)
	}
	return p
}

// Progress returns the current estimate without advancing it.
func (e *Extrapolator) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked()
}

// Run ticks at the given cadence until ctx is cancelled, passing every
// estimate to render.
func (e *Extrapolator) Run(ctx context.Context, every time.Duration, render func(Progress)) {
	if every <= 0 {
		every = defaultTickInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	defer e.stopPending()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p := e.Tick()
			if render != nil {
				render(p)
			}
		}
	}
}

func (e *Extrapolator) scheduleRefreshLocked() {
	if e.pending != nil {
		return
	}
	e.pending = e.afterFunc(e.resyncDelay, func() {
		e.mu.Lock()
		e.pending = nil
		onResync := e.onResync
		e.mu.Unlock()
		if onResync != nil {
			onResync(false)
		}
	})
}

func (e *Extrapolator) stopPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

func (e *Extrapolator) progressLocked() Progress {
	return Progress{PositionMs: e.positionMs, TotalMs: e.totalMs, Paused: e.paused}
}

func clamp(positionMs, totalMs int64) int64 {
	if positionMs < 0 {
		return 0
	}
	if totalMs > 0 && positionMs > totalMs {
		return totalMs
	}
	return positionMs
}
