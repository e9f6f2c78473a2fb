// Package capture filters incoming snapshots and persists one file per snapshot.
package capture

import (
	"log/slog"
	"sync/atomic"

	"trafficreplay/internal/domain"
	"trafficreplay/internal/metrics"
	"trafficreplay/internal/relevance"
)

// Writer persists the filtered pilots of one snapshot.
type Writer interface {
	Write(versionKey string, pilots []*domain.Pilot) (int, error)
}

type Consumer struct {
	writer   Writer
	airports []domain.Airport
	rangeNM  float64
	logger   *slog.Logger

	written atomic.Int64
	dropped atomic.Int64
}

func New(writer Writer, airports []domain.Airport, rangeNM float64, logger *slog.Logger) *Consumer {
	return &Consumer{
		writer:   writer,
		airports: airports,
		rangeNM:  rangeNM,
		logger:   logger.With("component", "consumer"),
	}
}

// Run processes snapshots until in is closed. A snapshot that cannot be
// persisted is logged and skipped.
func (c *Consumer) Run(in <-chan *domain.Datafeed) {
	c.logger.Info("starting datafeed processor")

	for feed := range in {
		metrics.QueueDepth.Set(float64(len(in)))
		c.process(feed)
	}

	c.logger.Info("datafeed processor finished", "written", c.Written(), "dropped", c.Dropped())
}

func (c *Consumer) process(feed *domain.Datafeed) {
	key := feed.VersionKey()
	captured := relevance.Filter(feed.Pilots, c.airports, c.rangeNM)

	n, err := c.writer.Write(key, captured)
	if err != nil {
		c.dropped.Add(1)
		metrics.SnapshotsDropped.Inc()
		c.logger.Warn("could not persist capture", "update", key, "error", err)
		return
	}

	c.written.Add(1)
	metrics.SnapshotsWritten.Inc()
	metrics.PilotsCaptured.Add(float64(len(captured)))
	c.logger.Debug("finished processing datafeed",
		"update", key,
		"pilots_total", len(feed.Pilots),
		"pilots_captured", len(captured),
		"bytes", n,
	)
}

func (c *Consumer) Written() int64 {
	return c.written.Load()
}

func (c *Consumer) Dropped() int64 {
	return c.dropped.Load()
}
