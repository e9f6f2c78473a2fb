// Package consolidate merges persisted capture files into one event artifact.
package consolidate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb/geojson"

	"trafficreplay/internal/domain"
	"trafficreplay/internal/metrics"
	"trafficreplay/internal/reference"
	"trafficreplay/internal/store"
)

// DataProperty is the feature property holding the pilot record.
const DataProperty = "data"

var ErrNoAirports = errors.New("viewport center needs at least one airport")

// Source is the capture storage a consolidation reads from and writes to.
type Source interface {
	List() ([]store.Entry, error)
	Read(e store.Entry) ([]*domain.Pilot, error)
	WriteAggregate(v any) ([]byte, error)
}

// Result is the written artifact together with its encoded bytes.
type Result struct {
	Capture *domain.EventCapture
	Encoded []byte
}

type Consolidator struct {
	source Source
	logger *slog.Logger
}

func New(source Source, logger *slog.Logger) *Consolidator {
	return &Consolidator{
		source: source,
		logger: logger.With("component", "consolidator"),
	}
}

// Consolidate reads every capture file and writes the event artifact. Any
// unreadable file aborts the whole consolidation.
func (c *Consolidator) Consolidate(event *domain.EventConfig, airports []domain.Airport) (*Result, error) {
	start := time.Now()
	if len(airports) == 0 {
		return nil, ErrNoAirports
	}

	entries, err := c.source.List()
	if err != nil {
		return nil, err
	}

	captures := make(map[string]*geojson.FeatureCollection, len(entries))
	var minKey, maxKey *string

	for _, e := range entries {
		pilots, err := c.source.Read(e)
		if err != nil {
			return nil, err
		}

		key := e.VersionKey
		if minKey == nil || key < *minKey {
			minKey = &key
		}
		if maxKey == nil || key > *maxKey {
			maxKey = &key
		}

		captures[key] = FeatureCollection(pilots)
	}

	encodedCaptures, err := json.Marshal(captures)
	if err != nil {
		return nil, fmt.Errorf("serializing captures: %w", err)
	}

	capture := &domain.EventCapture{
		Config:              *event,
		FirstTimestampKey:   minKey,
		LastTimestampKey:    maxKey,
		Captures:            captures,
		CapturesLengthBytes: len(encodedCaptures),
		ViewportCenter:      reference.Centroid(airports),
	}

	encoded, err := c.source.WriteAggregate(capture)
	if err != nil {
		return nil, err
	}

	metrics.ConsolidatedCaptures.Set(float64(len(captures)))
	c.logger.Info("completed combining all datafeed captures",
		"captures", len(captures),
		"captures_bytes", capture.CapturesLengthBytes,
		"artifact_bytes", len(encoded),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{Capture: capture, Encoded: encoded}, nil
}

// FeatureCollection converts pilots to point features keyed by CID.
func FeatureCollection(pilots []*domain.Pilot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range pilots {
		if p == nil {
			continue
		}
		f := geojson.NewFeature(p.Point())
		f.ID = p.CID
		f.Properties[DataProperty] = p.Data()
		fc.Append(f)
	}
	return fc
}
