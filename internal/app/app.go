package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"

	"github.com/five82/marquee/internal/artwork"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/player"
	"github.com/five82/marquee/internal/ui"
)

// ErrAlreadyRunning is returned when another kiosk holds the instance lock.
var ErrAlreadyRunning = errors.New("another marquee instance is already running")

// Backend is the now-playing backend as used by a session.
type Backend interface {
	player.Fetcher
	player.Commander
	StreamURL() string
	Header() http.Header
}

// Options configure the kiosk application.
type Options struct {
	Config config.Config
	Logger *log.Logger

	// Headless forces the log surface even on a terminal.
	Headless bool
	// LockPath defaults to marquee.lock next to the log file.
	LockPath string

	// Backend and Loader default to the HTTP implementations.
	Backend Backend
	Loader  artwork.Loader
}

// Run boots the kiosk and restarts the session on every hard reload until ctx
// is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	opts.Logger = logger
	cfg := opts.Config

	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = filepath.Join(filepath.Dir(cfg.LogFile), "marquee.lock")
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release lock", "err", err)
		}
	}()

	if opts.Backend == nil {
		client, err := player.NewClient(cfg.BackendURL)
		if err != nil {
			return fmt.Errorf("init backend client: %w", err)
		}
		opts.Backend = client
	}
	if opts.Loader == nil {
		opts.Loader = artwork.NewHTTPLoader(nil)
	}
	if !opts.Headless && !isTerminal(os.Stdout) {
		logger.Info("stdout is not a terminal, using headless surface")
		opts.Headless = true
	}

	logger.Info("marquee started", "backend", cfg.BackendURL, "transport", cfg.Transport, "headless", opts.Headless)
	for session := 1; ; session++ {
		err := runSession(ctx, opts, session)
		switch {
		case errors.Is(err, controller.ErrReload):
			logger.Info("hard reload", "session", session, "reason", err)
			continue
		case errors.Is(err, ui.ErrQuit):
			logger.Info("quit by user")
			return nil
		case ctx.Err() != nil:
			logger.Info("shutting down")
			return nil
		case err != nil:
			return err
		default:
			return nil
		}
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
