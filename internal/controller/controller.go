package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/marquee/internal/diff"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/progress"
	"github.com/five82/marquee/internal/tracklist"
)

// ErrReload tells the session to tear everything down and start over.
var ErrReload = errors.New("hard reload requested")

// Artwork renders backgrounds.
type Artwork interface {
	Apply(ctx context.Context, change diff.Change[player.ImageData]) error
	PrerenderNext(ctx context.Context, img player.ImageData) <-chan struct{}
}

// TrackList reconciles the track list rows.
type TrackList interface {
	Reconcile(snap player.Snapshot) tracklist.Plan
}

// Progress is the local playback position estimate.
type Progress interface {
	Resync(positionMs, totalMs int64, paused bool)
	Progress() progress.Progress
}

// Preferences is the preference store.
type Preferences interface {
	IsEnabled(id string) bool
	Apply(entry string) (bool, error)
	States() map[string]bool
	Effects() []string
}

// Store holds the committed state.
type Store interface {
	Snapshot() player.Snapshot
	Commit(snap player.Snapshot)
}

// Options wires a Controller. Every field except Logger and Commander is
// required.
type Options struct {
	Store     Store
	View      View
	Artwork   Artwork
	TrackList TrackList
	Progress  Progress
	Prefs     Preferences
	Commander player.Commander
	Logger    *log.Logger
}

const commandTimeout = 5 * time.Second

// Controller runs the reconciliation pipeline.
type Controller struct {
	store     Store
	view      View
	artwork   Artwork
	tracks    TrackList
	progress  Progress
	prefs     Preferences
	commander player.Commander
	logger    *log.Logger

	mu      sync.Mutex
	busy    bool
	pending []player.Partial

	// Only touched by the goroutine holding busy.
	text  map[Field]string
	flags map[Flag]bool

	background sync.WaitGroup
}

// New builds a Controller.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		store:     opts.Store,
		view:      opts.View,
		artwork:   opts.Artwork,
		tracks:    opts.TrackList,
		progress:  opts.Progress,
		prefs:     opts.Prefs,
		commander: opts.Commander,
		logger:    logger.With("component", "controller"),
		text:      map[Field]string{},
		flags:     map[Flag]bool{},
	}
}

// Submit reconciles p. When another delivery is being reconciled p is queued
// and Submit returns immediately; the goroutine already reconciling processes
// it after its own commit. ErrReload is returned to whichever caller runs the
// stage that detects it, and drops anything still queued.
func (c *Controller) Submit(ctx context.Context, p player.Partial) error {
	c.mu.Lock()
	if c.busy {
		c.pending = append(c.pending, p)
		c.mu.Unlock()
		c.logger.Debug("queued snapshot behind running reconciliation")
		return nil
	}
	c.busy = true
	c.mu.Unlock()

	for {
		if err := c.process(ctx, p); err != nil {
			c.mu.Lock()
			c.busy = false
			c.pending = nil
			c.mu.Unlock()
			return err
		}

		c.mu.Lock()
		if len(c.pending) == 0 {
			c.busy = false
			c.mu.Unlock()
			return nil
		}
		p = c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
	}
}

func (c *Controller) process(ctx context.Context, p player.Partial) error {
	// RECEIVE
	if !p.HasData() {
		c.logger.Debug("heartbeat", "type", p.Type)
		return nil
	}
	old := c.store.Snapshot()
	if deploy := diff.DeployTime.Diff(&old, &p); deploy.Changed && old.DeployTime != 0 {
		c.logger.Info("backend redeployed", "old", old.DeployTime, "new", deploy.Value)
		return fmt.Errorf("deploy time changed: %w", ErrReload)
	}

	// TOGGLE-PREFS
	if err := c.togglePrefs(p.SettingsToToggle); err != nil {
		return err
	}

	// IMAGE-APPLY
	if err := c.artwork.Apply(ctx, diff.ImageData.Diff(&old, &p)); err != nil {
		c.logger.Debug("keeping previous background", "err", err)
	}

	// IMAGE-PRERENDER-NEXT
	if next := diff.NextImageData.Diff(&old, &p).Value; !next.IsBlank() {
		c.artwork.PrerenderNext(ctx, next)
	}

	// TEXT/STATE
	merged, changed := diff.Merge(old, &p)
	c.logger.Debug("merged snapshot", "changed", changed)
	c.updateText(merged)
	c.view.ShowTrackList(c.tracks.Reconcile(merged))
	cp := merged.CurrentlyPlaying
	c.progress.Resync(cp.TimeCurrent, cp.TimeTotal, merged.PlaybackContext.Paused)
	c.RenderProgress(c.progress.Progress())

	// COMMIT
	c.store.Commit(merged)
	return nil
}

func (c *Controller) togglePrefs(entries []string) error {
	changed := false
	for _, entry := range entries {
		if entry == player.ReloadSetting {
			return fmt.Errorf("reload toggle: %w", ErrReload)
		}
		ok, err := c.prefs.Apply(entry)
		if err != nil {
			// The preference store already logged the unknown id.
			continue
		}
		changed = changed || ok
	}
	if !changed {
		return nil
	}
	c.view.SetEffects(c.prefs.Effects())
	if c.commander != nil {
		states := c.prefs.States()
		c.goBackground(func(ctx context.Context) {
			if err := c.commander.ReportSettings(ctx, states); err != nil {
				c.logger.Warn("report settings", "err", err)
			}
		})
	}
	return nil
}

// RenderProgress writes a progress estimate to the view. It is shared by the
// reconciliation pipeline and the extrapolator tick.
func (c *Controller) RenderProgress(p progress.Progress) {
	c.view.SetProgress(p)
	label := ""
	if c.prefs.IsEnabled(prefs.ShowTimestamps) && p.TotalMs > 0 {
		label = p.Label()
	}
	c.view.SetText(FieldTime, label)
}

// Control sends a playback command without blocking snapshot processing.
func (c *Controller) Control(cmd player.Command) {
	if c.commander == nil {
		return
	}
	c.goBackground(func(ctx context.Context) {
		if err := c.commander.SendCommand(ctx, cmd); err != nil {
			c.logger.Warn("send command", "command", cmd, "err", err)
		}
	})
}

// Wait blocks until background requests have finished.
func (c *Controller) Wait() {
	c.background.Wait()
}

func (c *Controller) goBackground(fn func(ctx context.Context)) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (c *Controller) updateText(s player.Snapshot) {
	cp, pc := s.CurrentlyPlaying, s.PlaybackContext
	text := map[Field]string{
		FieldArtists:     strings.Join(cp.Artists, ", "),
		FieldAlbum:       cp.Album,
		FieldDescription: cp.Description,
	}

	text[FieldTitle] = cp.Title
	if c.prefs.IsEnabled(prefs.StripTitles) {
		text[FieldTitle], text[FieldTitleExtra] = tracklist.SplitTitle(cp.Title, c.prefs.IsEnabled(prefs.StripTitlesAggressive))
	}
	if c.prefs.IsEnabled(prefs.ShowReleaseDate) {
		text[FieldReleaseDate] = releaseYear(cp.ReleaseDate)
	}
	if c.prefs.IsEnabled(prefs.ShowContext) {
		text[FieldContext] = pc.Context.Name
		text[FieldContextType] = pc.Context.Type
	}
	if c.prefs.IsEnabled(prefs.ShowDevice) {
		text[FieldDevice] = pc.Device
	}
	if c.prefs.IsEnabled(prefs.ShowVolume) && pc.Volume >= 0 {
		text[FieldVolume] = strconv.Itoa(pc.Volume) + "%"
	}

	for _, f := range []Field{
		FieldTitle, FieldTitleExtra, FieldArtists, FieldAlbum, FieldReleaseDate,
		FieldDescription, FieldContext, FieldContextType, FieldDevice, FieldVolume,
	} {
		v := text[f]
		if prev, ok := c.text[f]; ok && prev == v {
			continue
		}
		c.view.SetText(f, v)
	}
	c.text = text

	flags := map[Flag]bool{
		FlagPaused:  pc.Paused,
		FlagShuffle: pc.Shuffle,
		FlagRepeat:  pc.Repeat != "" && pc.Repeat != "off",
		FlagIdle:    cp.ID == "",
	}
	for f, on := range flags {
		if prev, ok := c.flags[f]; ok && prev == on {
			continue
		}
		c.view.SetFlag(f, on)
	}
	c.flags = flags
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}
