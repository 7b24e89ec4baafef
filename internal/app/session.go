package app

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/progress"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tracklist"
	"github.com/five82/marquee/internal/transport"
	"github.com/five82/marquee/internal/ui"
)

// surface is what the reconciliation pipeline draws into.
type surface interface {
	controller.View
	artwork.Surface
}

// runSession builds every stateful component from scratch and runs until ctx
// ends, the user quits or a component fails. A hard reload surfaces as an
// error wrapping controller.ErrReload.
func runSession(parent context.Context, opts Options, id int) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cfg := opts.Config
	logger := opts.Logger.With("session", id)

	store := &state.Store{}
	userPrefs := loadPrefs(cfg.PrefsPath, logger)

	var (
		view   surface
		bridge *ui.Bridge
	)
	if opts.Headless {
		view = ui.NewLogView(logger)
	} else {
		bridge = ui.NewBridge()
		view = bridge
	}
	view.SetEffects(userPrefs.Effects())

	pipeline := artwork.New(artwork.Options{
		Loader:    opts.Loader,
		Surface:   view,
		Prefs:     userPrefs,
		Logger:    logger,
		Width:     cfg.BackgroundWidth,
		Height:    cfg.BackgroundHeight,
		Crossfade: cfg.Crossfade,
	})
	reconciler := tracklist.NewReconciler(userPrefs, tracklist.LayoutOptions{
		MinScale: cfg.MinScale,
		MaxScale: cfg.MaxScale,
		MinDelta: cfg.MinScaleDelta,
	}, logger)

	// The extrapolator and the transport depend on each other through the
	// controller; tr is assigned before anything can call OnResync.
	var tr transport.Transport
	extrapolator := progress.New(progress.Options{
		ResyncDelay:     cfg.ResyncDelay,
		MaxPostEndTicks: cfg.MaxPostEndTicks,
		OnResync: func(full bool) {
			tr.RequestRefresh(full)
		},
	})

	ctrl := controller.New(controller.Options{
		Store:     store,
		View:      view,
		Artwork:   pipeline,
		TrackList: reconciler,
		Progress:  extrapolator,
		Prefs:     userPrefs,
		Commander: opts.Backend,
		Logger:    logger,
	})
	defer ctrl.Wait()

	tr = newTransport(cfg, opts.Backend, ctrl, store, logger)

	// A preference changed outside the snapshot path: refresh the effects now
	// and re-run the pipeline against a full snapshot.
	prefsChanged := func() {
		view.SetEffects(userPrefs.Effects())
		tr.RequestRefresh(true)
	}
	save := func() {
		if err := prefs.Save(cfg.PrefsPath, userPrefs.Snapshot()); err != nil {
			logger.Warn("save preferences", "err", err)
		}
	}
	userPrefs.OnChange(func(map[string]bool) { save() })

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tr.Run(gctx)
	})
	g.Go(func() error {
		extrapolator.Run(gctx, cfg.TickInterval, ctrl.RenderProgress)
		return nil
	})
	g.Go(func() error {
		watchPrefs(gctx, cfg.PrefsPath, userPrefs, prefsChanged, logger)
		return nil
	})
	if bridge != nil {
		g.Go(func() error {
			return ui.Run(gctx, ui.Options{
				Bridge:         bridge,
				Layout:         reconciler,
				Health:         store,
				Prefs:          userPrefs,
				Control:        ctrl.Control,
				OnPrefsChanged: prefsChanged,
				OnThemeChange: func(name string) {
					userPrefs.SetTheme(name)
					save()
				},
				TickInterval: cfg.TickInterval,
				ThemeName:    userPrefs.Theme(),
			})
		})
	}

	return g.Wait()
}

// loadPrefs builds a fresh preference store from the persisted file. A
// broken file degrades to defaults.
func loadPrefs(path string, logger *log.Logger) *prefs.Store {
	store := prefs.NewStore(prefs.DefaultCatalog(), logger)
	f, err := prefs.Load(path)
	if err != nil {
		logger.Warn("load preferences, using defaults", "path", path, "err", err)
	}
	store.Restore(f)
	return store
}

// watchPrefs restores edits of the preference file into store and calls
// changed only when a value actually moved. Hot reload is optional, so a
// watcher failure is only logged.
func watchPrefs(ctx context.Context, path string, store *prefs.Store, changed func(), logger *log.Logger) {
	err := prefs.Watch(ctx, path, func(f prefs.File) {
		// Our own saves echo back here unchanged.
		if store.Restore(f) {
			changed()
		}
	})
	if err != nil {
		logger.Warn("watch preferences", "err", err)
	}
}

// newTransport picks the poller or the push streamer.
func newTransport(cfg config.Config, backend Backend, sink transport.Sink, health transport.Health, logger *log.Logger) transport.Transport {
	if cfg.Transport == config.TransportPoll {
		return transport.NewPoller(transport.PollerOptions{
			Fetcher:  backend,
			Sink:     sink,
			Health:   health,
			Logger:   logger,
			Interval: cfg.PollInterval,
		})
	}
	return transport.NewStreamer(transport.StreamerOptions{
		Dial: func(ctx context.Context) (transport.Conn, error) {
			stream, err := player.Dial(ctx, backend.StreamURL(), backend.Header())
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
		Fetcher:          backend,
		Sink:             sink,
		Health:           health,
		Logger:           logger,
		HeartbeatTimeout: cfg.HeartbeatTimeout,
		ReconnectDelay:   cfg.ReconnectDelay,
	})
}
