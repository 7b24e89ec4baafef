package transport

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/marquee/internal/player"
)

const defaultPollInterval = 2 * time.Second

// PollerOptions configure a Poller.
type PollerOptions struct {
	Fetcher  player.Fetcher
	Sink     Sink
	Health   Health
	Logger   *log.Logger
	Interval time.Duration
}

// Poller pulls snapshots at a fixed cadence.
type Poller struct {
	fetcher  player.Fetcher
	sink     Sink
	health   Health
	logger   *log.Logger
	interval time.Duration
	refresh  refresher
}

// NewPoller builds a Poller.
func NewPoller(opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		fetcher:  opts.Fetcher,
		sink:     opts.Sink,
		health:   opts.Health,
		logger:   logger.With("component", "poller"),
		interval: interval,
		refresh:  newRefresher(interval / 2),
	}
}

// RequestRefresh asks for an out-of-band fetch. Partial refreshes are rate
// limited; a full refresh replaces the whole state.
func (p *Poller) RequestRefresh(full bool) {
	if p.refresh.request(full) {
		p.logger.Debug("refresh requested", "full", full)
	}
}

// Run polls until ctx is done or the sink returns an error.
func (p *Poller) Run(ctx context.Context) error {
	failures := 0
	full := true
	for {
		err := p.poll(ctx, full)
		if cause := sinkCause(err); cause != nil {
			return cause
		}
		wait := p.interval
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.health.RecordError(err)
			wait = calculateBackoff(failures, p.interval)
			failures++
			p.logger.Warn("poll failed", "err", err, "failures", failures, "retry_in", wait)
			// A failed poll may have missed changes.
			full = true
		} else {
			failures = 0
			full = false
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		case req := <-p.refresh.ch:
			timer.Stop()
			full = full || req
		}
	}
}

func (p *Poller) poll(ctx context.Context, full bool) error {
	snap, err := p.fetcher.FetchSnapshot(ctx, full)
	if err != nil {
		return err
	}
	p.health.RecordSuccess()
	return deliver(ctx, p.sink, snap)
}
