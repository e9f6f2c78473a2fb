// Package pipeline wires poller, consumer and consolidator into one capture run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"trafficreplay/internal/capture"
	"trafficreplay/internal/consolidate"
	"trafficreplay/internal/domain"
	"trafficreplay/internal/poller"
	"trafficreplay/internal/store"
)

// Publisher distributes a consolidated artifact after it has been written.
type Publisher interface {
	Publish(ctx context.Context, event *domain.EventConfig, encoded []byte) error
}

type Options struct {
	ChannelCapacity int
	RangeNM         float64
	PreRoll         time.Duration
	PostRoll        time.Duration
	PollerOptions   []poller.Option
	// Publisher is optional.
	Publisher Publisher
}

type Pipeline struct {
	event     *domain.EventConfig
	airports  []domain.Airport
	store     *store.CaptureStore
	publisher Publisher
	logger    *slog.Logger

	feedCh   chan *domain.Datafeed
	poller   *poller.Poller
	consumer *capture.Consumer
	merger   *consolidate.Consolidator
}

// New prepares a capture run for event. airports must already be resolved
// against the reference data.
func New(feed poller.Feed, s *store.CaptureStore, event *domain.EventConfig, airports []domain.Airport, opts Options, logger *slog.Logger) *Pipeline {
	feedCh := make(chan *domain.Datafeed, opts.ChannelCapacity)
	window := event.Window(opts.PreRoll, opts.PostRoll)

	return &Pipeline{
		event:     event,
		airports:  airports,
		store:     s,
		publisher: opts.Publisher,
		logger:    logger.With("component", "pipeline", "event", event.Slug()),
		feedCh:    feedCh,
		poller:    poller.New(feed, feedCh, window, logger, opts.PollerOptions...),
		consumer:  capture.New(s, airports, opts.RangeNM, logger),
		merger:    consolidate.New(s, logger),
	}
}

// Run captures the event window and then consolidates the captures.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Capture(ctx); err != nil {
		return err
	}
	return p.Consolidate(ctx)
}

// Capture runs the poller in the background and the consumer until the
// poller closes the feed channel.
func (p *Pipeline) Capture(ctx context.Context) error {
	if err := p.store.Init(); err != nil {
		return err
	}
	p.logger.Info("capturing", "captures_dir", p.store.Layout().CapturesDir())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.poller.Run(gctx)
		return nil
	})
	g.Go(func() error {
		p.consumer.Run(p.feedCh)
		return nil
	})
	return g.Wait()
}

// Consolidate merges whatever capture files exist into the event artifact
// and publishes it when a publisher is configured.
func (p *Pipeline) Consolidate(ctx context.Context) error {
	res, err := p.merger.Consolidate(p.event, p.airports)
	if err != nil {
		return fmt.Errorf("combining captures: %w", err)
	}
	p.logger.Info("wrote event capture", "path", p.store.Layout().AggregatePath())

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, p.event, res.Encoded); err != nil {
			p.logger.Error("failed to publish event capture", "error", err)
		}
	}
	return nil
}

// Ready reports whether the capture window is open and polling has begun.
func (p *Pipeline) Ready() bool {
	return p.poller.State() == poller.StatePolling
}

func (p *Pipeline) State() string {
	return p.poller.State().String()
}

func (p *Pipeline) LastVersion() string {
	return p.poller.LastVersion()
}

func (p *Pipeline) Written() int64 {
	return p.consumer.Written()
}

func (p *Pipeline) Dropped() int64 {
	return p.consumer.Dropped()
}
