package transport

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/marquee/internal/player"
)

// Sink consumes delivered snapshots.
type Sink interface {
	Submit(ctx context.Context, p player.Partial) error
}

// Health records transport outcomes.
type Health interface {
	RecordSuccess()
	RecordError(err error)
}

// Transport is a running snapshot source.
type Transport interface {
	Run(ctx context.Context) error
	RequestRefresh(full bool)
}

const maxBackoff = 30 * time.Second

// calculateBackoff returns base doubled once per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// sinkError marks an error returned by the Sink so it is not retried.
type sinkError struct{ err error }

func (e sinkError) Error() string { return e.err.Error() }
func (e sinkError) Unwrap() error { return e.err }

func deliver(ctx context.Context, sink Sink, p player.Partial) error {
	if err := sink.Submit(ctx, p); err != nil {
		return sinkError{err: err}
	}
	return nil
}

// sinkCause returns the sink error wrapped in err, or nil.
func sinkCause(err error) error {
	var se sinkError
	if errors.As(err, &se) {
		return se.err
	}
	return nil
}

// refresher rate-limits out-of-band refresh requests. Full resyncs are never
// limited.
type refresher struct {
	limiter *rate.Limiter
	ch      chan bool
}

func newRefresher(every time.Duration) refresher {
	if every <= 0 {
		every = time.Second
	}
	return refresher{
		limiter: rate.NewLimiter(rate.Every(every), 1),
		ch:      make(chan bool, 1),
	}
}

func (r refresher) request(full bool) bool {
	if !full && !r.limiter.Allow() {
		return false
	}
	select {
	case r.ch <- full:
		return true
	default:
		if full {
			// Upgrade a queued partial request to a full one.
			select {
			case <-r.ch:
			default:
			}
			select {
			case r.ch <- true:
			default:
			}
			return true
		}
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
