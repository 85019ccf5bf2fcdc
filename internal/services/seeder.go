package services

import (
	"context"
	"fmt"
	"log/slog"

	"salesboard/internal/core"
	"salesboard/internal/feed"
)

// SeedStore is the write side of the store: wholesale replacement only.
type SeedStore interface {
	ReplaceAll(ctx context.Context, txns []core.Transaction) error
}

// FeedFetcher retrieves the upstream transaction dataset.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]feed.Record, error)
}

// ReseedPublisher broadcasts that the dataset was replaced. May be nil
// when messaging is not configured.
type ReseedPublisher interface {
	PublishDatasetReseeded(ctx context.Context, count int) error
}

// SeedResult reports what one seed run loaded.
type SeedResult struct {
	Loaded  int
	Skipped int // feed records dropped for an unparseable price
}

// Seeder replaces the store's contents from the upstream feed. Seeding
// is an exclusive administrative action: it is not safe to run two
// seeds concurrently, but readers are isolated by the store's
// transactional replace.
type Seeder struct {
	store  SeedStore
	feed   FeedFetcher
	events ReseedPublisher
}

func NewSeeder(store SeedStore, fetcher FeedFetcher, events ReseedPublisher) *Seeder {
	return &Seeder{store: store, feed: fetcher, events: events}
}

// Seed fetches the feed, clears the store and bulk-loads the dataset.
// Records whose price does not parse as a non-negative decimal are
// skipped and counted, never stored. A failed reseed event is logged
// but does not fail the seed; the data is already durable.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	records, err := s.feed.Fetch(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("fetch seed feed: %w", err)
	}

	txns := make([]core.Transaction, 0, len(records))
	skipped := 0
	for _, rec := range records {
		t, err := rec.Transaction()
		if err != nil {
			skipped++
			slog.WarnContext(ctx, "Skipping feed record", "title", rec.Title, "error", err)
			continue
		}
		txns = append(txns, t)
	}

	if err := s.store.ReplaceAll(ctx, txns); err != nil {
		return SeedResult{}, fmt.Errorf("replace transactions: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishDatasetReseeded(ctx, len(txns)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reseed event", "error", err, "count", len(txns))
		}
	}

	slog.InfoContext(ctx, "Database seeded", "count", len(txns), "skipped", skipped)
	return SeedResult{Loaded: len(txns), Skipped: skipped}, nil
}
