package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trafficreplay/internal/domain"
)

// EventEntry is one element of the published events index, the list a
// replay viewer offers for selection.
type EventEntry struct {
	Event       domain.EventConfig `json:"event"`
	Key         string             `json:"key"`
	SizeBytes   int                `json:"size_bytes"`
	PublishedAt time.Time          `json:"published_at"`
}

// Publisher makes consolidated artifacts available to replay viewers.
type Publisher struct {
	cache  *RedisCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewPublisher(cache *RedisCache, ttl time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "publisher"),
	}
}

// Publish stores the encoded artifact compressed and registers the event
// in the events index.
func (p *Publisher) Publish(ctx context.Context, event *domain.EventConfig, encoded []byte) error {
	start := time.Now()
	slug := event.Slug()
	key := KeyCapture(slug)

	if err := p.cache.SetCompressed(ctx, key, encoded, p.ttl); err != nil {
		return fmt.Errorf("storing capture %s: %w", slug, err)
	}

	entry := EventEntry{
		Event:       *event,
		Key:         p.cache.key(key),
		SizeBytes:   len(encoded),
		PublishedAt: time.Now().UTC(),
	}
	if err := p.cache.HSetJSON(ctx, KeyEvents, slug, entry); err != nil {
		return fmt.Errorf("indexing event %s: %w", slug, err)
	}

	p.logger.Info("published capture",
		"slug", slug,
		"key", entry.Key,
		"size_bytes", len(encoded),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
