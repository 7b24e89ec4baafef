package ui

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/progress"
	"github.com/five82/marquee/internal/tracklist"
)

// Frame is everything the surface currently shows.
type Frame struct {
	Text     map[controller.Field]string
	Flags    map[controller.Flag]bool
	Progress progress.Progress
	Effects  []string

	// ListOp is the last track list update. After a shift, Departing holds
	// the rows that left the head of the list at ListChanged.
	ListOp      tracklist.Op
	Departing   []tracklist.Row
	ListChanged time.Time

	Asset     *artwork.Asset
	Previous  *artwork.Asset
	FadeStart time.Time
	Crossfade time.Duration

	// Version increases on every change.
	Version uint64
}

// HasEffect reports whether the style class is active.
func (f Frame) HasEffect(effect string) bool {
	return slices.Contains(f.Effects, effect)
}

// Fade returns how far the crossfade to Asset has progressed, in [0, 1].
func (f Frame) Fade(now time.Time) float64 {
	if f.Previous == nil || f.Crossfade <= 0 {
		return 1
	}
	p := float64(now.Sub(f.FadeStart)) / float64(f.Crossfade)
	return max(0, min(1, p))
}

// Departure reports whether rows are still leaving the list at now, with d
// as the length of the animation.
func (f Frame) Departure(now time.Time, d time.Duration) bool {
	if f.ListOp != tracklist.OpShift || len(f.Departing) == 0 {
		return false
	}
	elapsed := now.Sub(f.ListChanged)
	return elapsed >= 0 && elapsed < d
}

// Bridge is the thread-safe surface the controller and the artwork pipeline
// write into. The bubbletea program reads it back as Frames.
type Bridge struct {
	mu      sync.Mutex
	frame   Frame
	rows    []tracklist.Row
	now     func() time.Time
	changes chan struct{}
}

var (
	_ controller.View = (*Bridge)(nil)
	_ artwork.Surface = (*Bridge)(nil)
)

// NewBridge returns an empty surface.
func NewBridge() *Bridge {
	return &Bridge{
		frame: Frame{
			Text:  map[controller.Field]string{},
			Flags: map[controller.Flag]bool{},
		},
		now:     time.Now,
		changes: make(chan struct{}, 1),
	}
}

// Changes signals that the frame changed. Signals coalesce.
func (b *Bridge) Changes() <-chan struct{} {
	return b.changes
}

// Frame returns a copy of the current frame.
func (b *Bridge) Frame() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	f := b.frame
	f.Text = maps.Clone(b.frame.Text)
	f.Flags = maps.Clone(b.frame.Flags)
	f.Effects = slices.Clone(b.frame.Effects)
	f.Departing = slices.Clone(b.frame.Departing)
	return f
}

// SetText implements controller.View.
func (b *Bridge) SetText(field controller.Field, value string) {
	b.update(func(f *Frame) { f.Text[field] = value })
}

// SetFlag implements controller.View.
func (b *Bridge) SetFlag(flag controller.Flag, on bool) {
	b.update(func(f *Frame) { f.Flags[flag] = on })
}

// SetProgress implements controller.View.
func (b *Bridge) SetProgress(p progress.Progress) {
	b.update(func(f *Frame) { f.Progress = p })
}

// SetEffects implements controller.View.
func (b *Bridge) SetEffects(effects []string) {
	effects = slices.Clone(effects)
	b.update(func(f *Frame) { f.Effects = effects })
}

// ShowTrackList implements controller.View. Rows are read back through the
// reconciler at layout time; the bridge only keeps what a shift removed.
func (b *Bridge) ShowTrackList(plan tracklist.Plan) {
	now := b.now()
	b.mu.Lock()
	var departing []tracklist.Row
	if plan.Op == tracklist.OpShift && plan.Removed > 0 {
		departing = slices.Clone(b.rows[:min(plan.Removed, len(b.rows))])
	}
	b.rows = slices.Clone(plan.Rows)
	b.mu.Unlock()

	b.update(func(f *Frame) {
		f.ListOp = plan.Op
		f.Departing = departing
		f.ListChanged = now
	})
}

// ShowBackground implements artwork.Surface.
func (b *Bridge) ShowBackground(asset *artwork.Asset, crossfade time.Duration) {
	now := b.now()
	b.update(func(f *Frame) {
		f.Previous = f.Asset
		f.Asset = asset
		f.FadeStart = now
		f.Crossfade = crossfade
	})
}

func (b *Bridge) update(fn func(f *Frame)) {
	b.mu.Lock()
	fn(&b.frame)
	b.frame.Version++
	b.mu.Unlock()

	select {
	case b.changes <- struct{}{}:
	default:
	}
}
