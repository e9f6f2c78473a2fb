// Package poller drives the time-windowed capture loop against the feed.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"trafficreplay/internal/domain"
	"trafficreplay/internal/metrics"
)

const (
	DefaultCadence    = 5 * time.Second
	DefaultMaxCredit  = 4 * time.Second
	DefaultRetryDelay = time.Second
)

// Feed returns the current full-state snapshot of the network.
type Feed interface {
	Fetch(ctx context.Context) (*domain.Datafeed, error)
}

type State int32

const (
	StateAwaitingWindow State = iota
	StatePolling
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateAwaitingWindow:
		return "awaiting_window"
	case StatePolling:
		return "polling"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type Option func(*Poller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// WithSleep replaces the context-aware delay used for waiting and pacing.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Poller) { p.sleep = sleep }
}

// WithCadence sets the target interval between forwarded snapshots and the
// maximum amount of a slow iteration credited against it.
func WithCadence(cadence, maxCredit time.Duration) Option {
	return func(p *Poller) {
		p.cadence = cadence
		p.maxCredit = min(maxCredit, cadence)
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(p *Poller) { p.retryDelay = d }
}

type Poller struct {
	feed   Feed
	out    chan<- *domain.Datafeed
	window domain.Window
	logger *slog.Logger

	cadence    time.Duration
	maxCredit  time.Duration
	retryDelay time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error

	state     atomic.Int32
	forwarded atomic.Int64

	lastMu      sync.RWMutex
	lastVersion string
}

// New returns a poller that forwards new snapshots on out. The poller owns
// out and closes it when it stops.
func New(feed Feed, out chan<- *domain.Datafeed, window domain.Window, logger *slog.Logger, opts ...Option) *Poller {
	p := &Poller{
		feed:       feed,
		out:        out,
		window:     window,
		logger:     logger.With("component", "poller"),
		cadence:    DefaultCadence,
		maxCredit:  DefaultMaxCredit,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.setState(StateAwaitingWindow)
	return p
}

// Run polls until a snapshot newer than the window end is seen or ctx is
// cancelled. Feed errors are retried indefinitely.
func (p *Poller) Run(ctx context.Context) {
	defer p.stop()

	if wait := p.window.Start.Sub(p.now()); wait > 0 {
		p.logger.Info("sleeping until capture window opens", "window_start", p.window.Start, "in", wait)
		if err := p.sleep(ctx, wait); err != nil {
			p.logger.Info("cancelled before capture window opened")
			return
		}
	}

	p.setState(StatePolling)
	p.logger.Info("starting datafeed loop", "window_end", p.window.End)

	for {
		start := p.now()

		feed, err := p.feed.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			metrics.Polls.WithLabelValues(metrics.PollError).Inc()
			p.logger.Warn("could not fetch datafeed", "error", err)
			if !p.pause(ctx, p.retryDelay) {
				return
			}
			continue
		}
		if feed == nil {
			metrics.Polls.WithLabelValues(metrics.PollError).Inc()
			p.logger.Warn("datafeed fetch returned no snapshot")
			if !p.pause(ctx, p.retryDelay) {
				return
			}
			continue
		}

		key := feed.VersionKey()
		if key == p.LastVersion() {
			metrics.Polls.WithLabelValues(metrics.PollDuplicate).Inc()
			p.logger.Debug("found duplicate", "update", key)
			if !p.pause(ctx, p.retryDelay) {
				return
			}
			continue
		}

		updated, err := time.Parse(time.RFC3339Nano, feed.General.UpdateTimestamp)
		if err != nil {
			metrics.Polls.WithLabelValues(metrics.PollBadTimestamp).Inc()
			p.logger.Warn("could not parse update timestamp",
				"update", key,
				"timestamp", feed.General.UpdateTimestamp,
				"error", err,
			)
			if !p.pause(ctx, p.retryDelay) {
				return
			}
			continue
		}

		if p.window.Expired(updated) {
			p.logger.Info("capture window ended", "update_timestamp", updated, "window_end", p.window.End)
			return
		}

		select {
		case p.out <- feed:
		case <-ctx.Done():
			p.logger.Error("snapshot receiver gone, ending datafeed loop", "update", key)
			return
		}

		p.setLastVersion(key)
		p.forwarded.Add(1)
		metrics.Polls.WithLabelValues(metrics.PollOK).Inc()
		metrics.SnapshotsForwarded.Inc()
		metrics.QueueDepth.Set(float64(len(p.out)))
		p.logger.Info("found new datafeed", "update", key, "update_timestamp", updated, "pilots", len(feed.Pilots))

		elapsed := max(p.now().Sub(start), 0)
		metrics.PollDuration.Observe(elapsed.Seconds())
		if elapsed > p.maxCredit {
			p.logger.Warn("long loop", "loop_time", elapsed)
		}
		next := p.cadence - min(p.maxCredit, elapsed)
		p.logger.Debug("sleeping", "duration", next)
		if !p.pause(ctx, next) {
			return
		}
	}
}

func (p *Poller) State() State {
	return State(p.state.Load())
}

// LastVersion is the version key of the most recently forwarded snapshot.
func (p *Poller) LastVersion() string {
	p.lastMu.RLock()
	defer p.lastMu.RUnlock()
	return p.lastVersion
}

// Forwarded is the number of snapshots handed to the consumer so far.
func (p *Poller) Forwarded() int64 {
	return p.forwarded.Load()
}

func (p *Poller) setLastVersion(key string) {
	p.lastMu.Lock()
	defer p.lastMu.Unlock()
	p.lastVersion = key
}

func (p *Poller) setState(s State) {
	p.state.Store(int32(s))
	metrics.PollerState.Set(float64(s))
}

func (p *Poller) pause(ctx context.Context, d time.Duration) bool {
	return p.sleep(ctx, d) == nil
}

func (p *Poller) stop() {
	p.setState(StateDraining)
	close(p.out)
	p.setState(StateStopped)
	p.logger.Info("datafeed loop stopped", "forwarded", p.Forwarded(), "last_update", p.LastVersion())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
