package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/player"
)

// Conn is an open push subscription.
type Conn interface {
	Next(deadline time.Time) (player.Partial, error)
	Close() error
}

// DialFunc opens a push subscription.
type DialFunc func(ctx context.Context) (Conn, error)

// errHeartbeat reports a subscription that went silent.
var errHeartbeat = errors.New("no data within heartbeat timeout")

const (
	defaultHeartbeatTimeout = 30 * time.Second
	defaultReconnectDelay   = 2 * time.Second
)

// StreamerOptions configure a Streamer.
type StreamerOptions struct {
	Dial             DialFunc
	Fetcher          player.Fetcher
	Sink             Sink
	Health           Health
	Logger           *log.Logger
	HeartbeatTimeout time.Duration
	ReconnectDelay   time.Duration
}

// Streamer receives pushed snapshots over a subscription. Silence longer than
// the heartbeat timeout tears the subscription down and starts over with a
// full snapshot.
type Streamer struct {
	dial      DialFunc
	fetcher   player.Fetcher
	sink      Sink
	health    Health
	logger    *log.Logger
	heartbeat time.Duration
	reconnect time.Duration
	refresh   refresher
}

// NewStreamer builds a Streamer.
func NewStreamer(opts StreamerOptions) *Streamer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Streamer{
		dial:      opts.Dial,
		fetcher:   opts.Fetcher,
		sink:      opts.Sink,
		health:    opts.Health,
		logger:    logger.With("component", "streamer"),
		heartbeat: opts.HeartbeatTimeout,
		reconnect: opts.ReconnectDelay,
	}
	if s.heartbeat <= 0 {
		s.heartbeat = defaultHeartbeatTimeout
	}
	if s.reconnect <= 0 {
		s.reconnect = defaultReconnectDelay
	}
	s.refresh = newRefresher(s.reconnect)
	return s
}

// RequestRefresh asks for an out-of-band fetch next to the subscription.
func (s *Streamer) RequestRefresh(full bool) {
	if s.refresh.request(full) {
		s.logger.Debug("refresh requested", "full", full)
	}
}

// Run keeps a subscription open until ctx is done or the sink returns an
// error.
func (s *Streamer) Run(ctx context.Context) error {
	failures := 0
	for {
		err := s.session(ctx)
		if cause := sinkCause(err); cause != nil {
			return cause
		}
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			failures = 0
			continue
		}
		s.health.RecordError(err)
		wait := calculateBackoff(failures, s.reconnect)
		failures++
		s.logger.Warn("stream failed", "err", err, "failures", failures, "retry_in", wait)
		if !sleep(ctx, wait) {
			return nil
		}
	}
}

func (s *Streamer) session(ctx context.Context) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	snap, err := s.fetcher.FetchSnapshot(ctx, true)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	s.health.RecordSuccess()
	if err := deliver(ctx, s.sink, snap); err != nil {
		return err
	}
	s.logger.Debug("subscription established")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Unblocks Next when another goroutine fails or ctx ends.
		<-gctx.Done()
		_ = conn.Close()
		return nil
	})
	g.Go(func() error {
		for {
			p, err := conn.Next(time.Now().Add(s.heartbeat))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if isTimeout(err) {
					return errHeartbeat
				}
				return err
			}
			s.health.RecordSuccess()
			if err := deliver(gctx, s.sink, p); err != nil {
				return err
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case full := <-s.refresh.ch:
				p, err := s.fetcher.FetchSnapshot(gctx, full)
				if err != nil {
					s.logger.Warn("refresh failed", "full", full, "err", err)
					continue
				}
				if err := deliver(gctx, s.sink, p); err != nil {
					return err
				}
			}
		}
	})
	return g.Wait()
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
