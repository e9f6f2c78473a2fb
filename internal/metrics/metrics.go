package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Poll outcomes.
const (
	PollOK           = "ok"
	PollError        = "error"
	PollDuplicate    = "duplicate"
	PollBadTimestamp = "bad_timestamp"
)

var (
	Polls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trafficreplay_polls_total",
		Help: "Feed requests issued by the poller, labelled by outcome.",
	}, []string{"outcome"})

	SnapshotsForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficreplay_snapshots_forwarded_total",
		Help: "Snapshots handed from the poller to the consumer.",
	})

	SnapshotsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficreplay_snapshots_written_total",
		Help: "Filtered snapshots persisted to disk.",
	})

	SnapshotsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficreplay_snapshots_dropped_total",
		Help: "Snapshots that could not be persisted.",
	})

	PilotsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trafficreplay_pilots_captured_total",
		Help: "Pilots kept by the relevance filter across all snapshots.",
	})

	PollerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trafficreplay_poller_state",
		Help: "Poller state (0 awaiting window, 1 polling, 2 draining, 3 stopped).",
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trafficreplay_queue_depth",
		Help: "Snapshots buffered between poller and consumer.",
	})

	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trafficreplay_poll_iteration_seconds",
		Help:    "Wall time of one successful poll iteration.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 4, 5, 10},
	})

	ConsolidatedCaptures = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trafficreplay_consolidated_captures",
		Help: "Capture files included in the last consolidation.",
	})
)
