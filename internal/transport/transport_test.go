package transport

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/marquee/internal/player"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fetchResult struct {
	p   player.Partial
	err error
}

type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	fulls   []bool
}

func (f *fakeFetcher) FetchSnapshot(ctx context.Context, full bool) (player.Partial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fulls = append(f.fulls, full)
	if len(f.results) == 0 {
		return player.Partial{Type: player.TypeHeartbeat}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.p, r.err
}

func (f *fakeFetcher) calls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.fulls...)
}

type fakeSink struct {
	mu       sync.Mutex
	received []player.Partial
	failOn   int
	err      error
	notify   chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{notify: make(chan struct{}, 64)}
}

func (s *fakeSink) Submit(ctx context.Context, p player.Partial) error {
	s.mu.Lock()
	s.received = append(s.received, p)
	n := len(s.received)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
	if s.err != nil && n >= s.failOn {
		return s.err
	}
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

type fakeHealth struct {
	mu        sync.Mutex
	successes int
	errors    int
}

func (h *fakeHealth) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.successes++
}

func (h *fakeHealth) RecordError(error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func (h *fakeHealth) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.successes, h.errors
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestPoller_FullThenPartial(t *testing.T) {
	fetcher := &fakeFetcher{}
	sink := newFakeSink()
	health := &fakeHealth{}
	p := NewPoller(PollerOptions{Fetcher: fetcher, Sink: sink, Health: health, Logger: quietLogger(), Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitFor(t, "three polls", func() bool { return sink.count() >= 3 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	calls := fetcher.calls()
	if !calls[0] || calls[1] || calls[2] {
		t.Fatalf("full flags = %v, want [true false false ...]", calls[:3])
	}
}

func TestPoller_ErrorBacksOffAndResyncs(t *testing.T) {
	fetcher := &fakeFetcher{results: []fetchResult{
		{p: player.Partial{Type: player.TypeData}},
		{err: errors.New("connection refused")},
	}}
	sink := newFakeSink()
	health := &fakeHealth{}
	p := NewPoller(PollerOptions{Fetcher: fetcher, Sink: sink, Health: health, Logger: quietLogger(), Interval: 2 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitFor(t, "recovery", func() bool { return len(fetcher.calls()) >= 3 })
	cancel()
	<-done

	calls := fetcher.calls()
	if !calls[2] {
		t.Fatalf("poll after failure full = false, want true (calls %v)", calls)
	}
	if _, errs := health.counts(); errs != 1 {
		t.Fatalf("recorded errors = %d, want 1", errs)
	}
}

func TestPoller_SinkErrorEndsRun(t *testing.T) {
	reload := errors.New("reload")
	sink := newFakeSink()
	sink.err, sink.failOn = reload, 1
	p := NewPoller(PollerOptions{Fetcher: &fakeFetcher{}, Sink: sink, Health: &fakeHealth{}, Logger: quietLogger(), Interval: time.Millisecond})

	if err := p.Run(context.Background()); !errors.Is(err, reload) {
		t.Fatalf("Run = %v, want reload error", err)
	}
}

func TestPoller_RequestRefresh(t *testing.T) {
	fetcher := &fakeFetcher{}
	sink := newFakeSink()
	p := NewPoller(PollerOptions{Fetcher: fetcher, Sink: sink, Health: &fakeHealth{}, Logger: quietLogger(), Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitFor(t, "first poll", func() bool { return sink.count() == 1 })
	p.RequestRefresh(true)
	waitFor(t, "refresh poll", func() bool { return sink.count() == 2 })
	cancel()
	<-done

	if calls := fetcher.calls(); !calls[1] {
		t.Fatalf("refresh full flag = false, want true (calls %v)", calls)
	}
}

func TestRefresher_LimitsPartialRequests(t *testing.T) {
	r := newRefresher(time.Hour)
	if !r.request(false) {
		t.Fatal("first partial request refused")
	}
	<-r.ch
	if r.request(false) {
		t.Fatal("second partial request within the limit accepted")
	}
	if !r.request(true) {
		t.Fatal("full request refused")
	}
	if full := <-r.ch; !full {
		t.Fatal("queued request is not full")
	}
}

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }

type fakeConn struct {
	msgs   chan player.Partial
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan player.Partial, 8), closed: make(chan struct{})}
}

func (c *fakeConn) Next(deadline time.Time) (player.Partial, error) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case p := <-c.msgs:
		return p, nil
	case <-timer.C:
		return player.Partial{}, timeoutError{}
	case <-c.closed:
		return player.Partial{}, errors.New("use of closed connection")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func TestStreamer_DeliversAndReconnectsOnSilence(t *testing.T) {
	var mu sync.Mutex
	var conns []*fakeConn
	dial := func(ctx context.Context) (Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		c := newFakeConn()
		if len(conns) == 0 {
			c.msgs <- player.Partial{Type: player.TypeData}
		}
		conns = append(conns, c)
		return c, nil
	}
	dials := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(conns)
	}

	fetcher := &fakeFetcher{}
	sink := newFakeSink()
	health := &fakeHealth{}
	s := NewStreamer(StreamerOptions{
		Dial:             dial,
		Fetcher:          fetcher,
		Sink:             sink,
		Health:           health,
		Logger:           quietLogger(),
		HeartbeatTimeout: 20 * time.Millisecond,
		ReconnectDelay:   time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitFor(t, "reconnect after silence", func() bool { return dials() >= 2 && sink.count() >= 3 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	calls := fetcher.calls()
	if len(calls) < 2 || !calls[0] || !calls[1] {
		t.Fatalf("fetches = %v, want a full fetch per connection", calls)
	}
	if sink.count() < 3 {
		t.Fatalf("delivered %d snapshots, want initial + pushed + initial", sink.count())
	}
	if _, errs := health.counts(); errs < 1 {
		t.Fatal("heartbeat timeout not recorded as a failure")
	}
	mu.Lock()
	defer mu.Unlock()
	select {
	case <-conns[0].closed:
	default:
		t.Fatal("silent connection was not closed")
	}
}

func TestStreamer_SinkErrorEndsRun(t *testing.T) {
	reload := errors.New("reload")
	sink := newFakeSink()
	sink.err, sink.failOn = reload, 2

	conn := newFakeConn()
	conn.msgs <- player.Partial{Type: player.TypeData}
	s := NewStreamer(StreamerOptions{
		Dial:    func(context.Context) (Conn, error) { return conn, nil },
		Fetcher: &fakeFetcher{},
		Sink:    sink,
		Health:  &fakeHealth{},
		Logger:  quietLogger(),
	})

	if err := s.Run(context.Background()); !errors.Is(err, reload) {
		t.Fatalf("Run = %v, want reload error", err)
	}
}

func TestStreamer_DialErrorRetries(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	dial := func(ctx context.Context) (Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return nil, errors.New("refused")
	}
	health := &fakeHealth{}
	s := NewStreamer(StreamerOptions{
		Dial: dial, Fetcher: &fakeFetcher{}, Sink: newFakeSink(), Health: health,
		Logger: quietLogger(), ReconnectDelay: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	waitFor(t, "retries", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 3
	})
	cancel()
	<-done
	if _, errs := health.counts(); errs < 3 {
		t.Fatalf("recorded errors = %d, want >= 3", errs)
	}
}
