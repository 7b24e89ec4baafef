package tracklist

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/marquee/internal/player"
)

// LayoutOptions bound the row scale.
type LayoutOptions struct {
	MinScale float64
	MaxScale float64
	MinDelta float64
}

// DefaultLayoutOptions returns the bounds used when none are configured.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{MinScale: 1, MaxScale: 3, MinDelta: 0.25}
}

// Layout tracks the applied row scale. The scale is the number of lines one
// row occupies.
type Layout struct {
	opts  LayoutOptions
	scale float64
}

// NewLayout returns a layout at the minimum scale.
func NewLayout(opts LayoutOptions) *Layout {
	def := DefaultLayoutOptions()
	if opts.MinScale <= 0 {
		opts.MinScale = def.MinScale
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	if opts.MinDelta < 0 {
		opts.MinDelta = 0
	}
	return &Layout{opts: opts, scale: opts.MinScale}
}

// Scale fits rows into available lines and returns the applied scale. The
// scale only moves when the fitted value differs by at least MinDelta.
func (l *Layout) Scale(rows, available int) (float64, bool) {
	target := l.opts.MinScale
	if rows > 0 && available > 0 {
		target = float64(available) / float64(rows)
	}
	target = math.Max(l.opts.MinScale, math.Min(l.opts.MaxScale, target))
	if math.Abs(target-l.scale) < l.opts.MinDelta {
		return l.scale, false
	}
	l.scale = target
	return l.scale, true
}

// Current returns the applied scale.
func (l *Layout) Current() float64 {
	return l.scale
}

// ScrollOffset returns the first visible row so that highlighted sits in the
// middle of a viewport of visible rows.
func ScrollOffset(highlighted, total, visible int) int {
	if visible <= 0 || total <= visible || highlighted < 0 {
		return 0
	}
	offset := highlighted - visible/2
	return max(0, min(offset, total-visible))
}

// Viewport is the visible slice of the list.
type Viewport struct {
	Mode        Mode
	Rows        []Row
	Highlighted int
	Offset      int
	Visible     int
	Scale       float64
}

// Reconciler owns the list state between snapshots.
type Reconciler struct {
	mu     sync.Mutex
	caps   Capabilities
	state  State
	layout *Layout
	logger *log.Logger
}

// NewReconciler returns a reconciler that reads preferences through caps.
func NewReconciler(caps Capabilities, opts LayoutOptions, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{
		caps:   caps,
		layout: NewLayout(opts),
		logger: logger.With("component", "tracklist"),
	}
}

// Reconcile updates the list for snap and returns the plan to render.
func (r *Reconciler) Reconcile(snap player.Snapshot) Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, next := Reconcile(r.state, snap, r.caps)
	r.state = next
	r.logger.Debug("reconciled track list", "mode", plan.Mode, "op", plan.Op, "rows", len(plan.Rows))
	return plan
}

// Relayout recomputes scale and scroll position for available lines.
func (r *Reconciler) Relayout(available int) Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.state.Rows
	scale, _ := r.layout.Scale(len(rows), available)
	visible := len(rows)
	if available > 0 {
		visible = min(len(rows), int(float64(available)/scale))
	}
	return Viewport{
		Mode:        r.state.Mode,
		Rows:        rows,
		Highlighted: r.state.Highlighted,
		Offset:      ScrollOffset(r.state.Highlighted, len(rows), visible),
		Visible:     visible,
		Scale:       scale,
	}
}

// State returns the current list state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
