// Package services holds the month-scoped analytics and the seeding
// orchestration on top of the transaction store.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"salesboard/internal/core"
	"salesboard/internal/storage"
)

// Store is the queryable transaction store the analytics run against.
// *storage.SQLiteRepository satisfies it; tests inject fakes.
type Store interface {
	SearchTransactions(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error)
	SoldStatistics(ctx context.Context, r core.MonthRange) (core.Statistics, error)
	PriceCents(ctx context.Context, r core.MonthRange) ([]int64, error)
	CategoryCounts(ctx context.Context, r core.MonthRange) ([]core.CategoryCount, error)
}

// Analytics answers the month-scoped queries behind the dashboard.
// All methods resolve the month first and return core.ErrInvalidMonth
// without touching the store when it is out of range.
type Analytics struct {
	store Store
}

func NewAnalytics(store Store) *Analytics {
	return &Analytics{store: store}
}

// Transactions returns one page of the month's records, optionally
// narrowed by a case-insensitive substring search over title,
// description and price text. Order is the store's insertion order;
// it is repeatable between reseeds but carries no semantic meaning.
func (a *Analytics) Transactions(ctx context.Context, month, page, perPage int, search string) ([]core.Transaction, error) {
	mr, err := core.ResolveMonth(month)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	txns, err := a.store.SearchTransactions(ctx, storage.TransactionFilter{
		Range:  mr,
		Search: search,
		Offset: (page - 1) * perPage,
		Limit:  perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// Statistics computes the month's total revenue and sold/unsold
// counts. Records without a sold flag are in neither count.
func (a *Analytics) Statistics(ctx context.Context, month int) (core.Statistics, error) {
	mr, err := core.ResolveMonth(month)
	if err != nil {
		return core.Statistics{}, err
	}
	stats, err := a.store.SoldStatistics(ctx, mr)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}
	return stats, nil
}

// PriceBuckets computes the fixed ten-bucket price histogram for the
// month. All ten buckets are always present, in order, zeros included.
func (a *Analytics) PriceBuckets(ctx context.Context, month int) ([]core.PriceBucket, error) {
	mr, err := core.ResolveMonth(month)
	if err != nil {
		return nil, err
	}
	prices, err := a.store.PriceCents(ctx, mr)
	if err != nil {
		return nil, fmt.Errorf("compute price buckets: %w", err)
	}

	buckets := core.NewPriceBuckets()
	for _, cents := range prices {
		buckets[core.BucketIndex(core.Money{Cents: cents})].Count++
	}
	return buckets, nil
}

// CategoryCounts computes the month's per-category record counts.
// Output order is unspecified; callers must treat it as a set.
func (a *Analytics) CategoryCounts(ctx context.Context, month int) ([]core.CategoryCount, error) {
	mr, err := core.ResolveMonth(month)
	if err != nil {
		return nil, err
	}
	counts, err := a.store.CategoryCounts(ctx, mr)
	if err != nil {
		return nil, fmt.Errorf("compute category counts: %w", err)
	}
	return counts, nil
}

// Combined runs the four month-scoped queries concurrently and
// assembles a fresh payload from their independent results. The first
// failure cancels the rest and fails the whole call; there are no
// partial payloads.
func (a *Analytics) Combined(ctx context.Context, month, page, perPage int, search string) (*core.CombinedView, error) {
	// Reject the month once up front so a bad month costs no store
	// round-trips at all.
	if _, err := core.ResolveMonth(month); err != nil {
		return nil, err
	}

	view := &core.CombinedView{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txns, err := a.Transactions(gctx, month, page, perPage, search)
		if err != nil {
			return err
		}
		view.Transactions = txns
		return nil
	})
	g.Go(func() error {
		stats, err := a.Statistics(gctx, month)
		if err != nil {
			return err
		}
		view.Statistics = stats
		return nil
	})
	g.Go(func() error {
		buckets, err := a.PriceBuckets(gctx, month)
		if err != nil {
			return err
		}
		view.BarChart = buckets
		return nil
	})
	g.Go(func() error {
		counts, err := a.CategoryCounts(gctx, month)
		if err != nil {
			return err
		}
		view.PieChart = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
