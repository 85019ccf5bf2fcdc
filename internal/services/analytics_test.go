package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"salesboard/internal/core"
	"salesboard/internal/storage"
)

func boolPtr(b bool) *bool { return &b }

// fakeStore keeps transactions in memory and applies the same
// predicates the SQLite repository applies, plus a call counter so
// tests can assert that invalid months never reach the store.
type fakeStore struct {
	txns  []core.Transaction
	calls int
	err   error
}

func (f *fakeStore) inRange(r core.MonthRange) []core.Transaction {
	var out []core.Transaction
	for _, t := range f.txns {
		if r.Contains(t.DateOfSale) {
			out = append(out, t)
		}
	}
	return out
}

func (f *fakeStore) SearchTransactions(_ context.Context, flt storage.TransactionFilter) ([]core.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	matched := f.inRange(flt.Range)
	if flt.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[flt.Offset:]
	if len(matched) > flt.Limit {
		matched = matched[:flt.Limit]
	}
	return matched, nil
}

func (f *fakeStore) SoldStatistics(_ context.Context, r core.MonthRange) (core.Statistics, error) {
	f.calls++
	if f.err != nil {
		return core.Statistics{}, f.err
	}
	var stats core.Statistics
	for _, t := range f.inRange(r) {
		if t.Sold == nil {
			continue
		}
		if *t.Sold {
			stats.SoldItems++
			stats.TotalSales.Cents += t.Price.Cents
		} else {
			stats.NotSoldItems++
		}
	}
	return stats, nil
}

func (f *fakeStore) PriceCents(_ context.Context, r core.MonthRange) ([]int64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []int64
	for _, t := range f.inRange(r) {
		out = append(out, t.Price.Cents)
	}
	return out, nil
}

func (f *fakeStore) CategoryCounts(_ context.Context, r core.MonthRange) ([]core.CategoryCount, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	byCat := map[string]int{}
	for _, t := range f.inRange(r) {
		byCat[t.Category]++
	}
	var out []core.CategoryCount
	for cat, n := range byCat {
		out = append(out, core.CategoryCount{Category: cat, Count: n})
	}
	return out, nil
}

func date(month time.Month, day int) time.Time {
	return time.Date(time.Now().Year(), month, day, 12, 0, 0, 0, time.UTC)
}

// scenarioStore returns the three-record dataset from the end-to-end
// scenario: two March records (one sold at 50, one unsold at 150) and
// one sold May record at 950.
func scenarioStore() *fakeStore {
	return &fakeStore{txns: []core.Transaction{
		{ID: 1, Title: "A1", Price: core.Money{Cents: 5000}, DateOfSale: date(time.March, 3), Sold: boolPtr(true), Category: "A"},
		{ID: 2, Title: "B1", Price: core.Money{Cents: 15000}, DateOfSale: date(time.March, 9), Sold: boolPtr(false), Category: "B"},
		{ID: 3, Title: "A2", Price: core.Money{Cents: 95000}, DateOfSale: date(time.May, 5), Sold: boolPtr(true), Category: "A"},
	}}
}

func TestInvalidMonthNeverReachesStore(t *testing.T) {
	store := scenarioStore()
	analytics := NewAnalytics(store)
	ctx := context.Background()

	for _, month := range []int{0, -1, 13, 100} {
		if _, err := analytics.Transactions(ctx, month, 1, 10, ""); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("Transactions(month=%d) error = %v, want ErrInvalidMonth", month, err)
		}
		if _, err := analytics.Statistics(ctx, month); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("Statistics(month=%d) error = %v, want ErrInvalidMonth", month, err)
		}
		if _, err := analytics.PriceBuckets(ctx, month); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("PriceBuckets(month=%d) error = %v, want ErrInvalidMonth", month, err)
		}
		if _, err := analytics.CategoryCounts(ctx, month); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("CategoryCounts(month=%d) error = %v, want ErrInvalidMonth", month, err)
		}
		if _, err := analytics.Combined(ctx, month, 1, 10, ""); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("Combined(month=%d) error = %v, want ErrInvalidMonth", month, err)
		}
	}
	if store.calls != 0 {
		t.Errorf("store was called %d times for invalid months, want 0", store.calls)
	}
}

func TestStatisticsScenario(t *testing.T) {
	analytics := NewAnalytics(scenarioStore())

	stats, err := analytics.Statistics(context.Background(), 3)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	want := core.Statistics{TotalSales: core.Money{Cents: 5000}, SoldItems: 1, NotSoldItems: 1}
	if stats != want {
		t.Errorf("Statistics(3) = %+v, want %+v", stats, want)
	}
}

func TestPriceBucketsScenario(t *testing.T) {
	analytics := NewAnalytics(scenarioStore())

	buckets, err := analytics.PriceBuckets(context.Background(), 3)
	if err != nil {
		t.Fatalf("PriceBuckets: %v", err)
	}
	if len(buckets) != core.NumPriceBuckets {
		t.Fatalf("got %d buckets, want %d", len(buckets), core.NumPriceBuckets)
	}
	for i, b := range buckets {
		want := 0
		switch b.Range {
		case "0-100", "101-200":
			want = 1
		}
		if b.Count != want {
			t.Errorf("bucket %d (%s) count = %d, want %d", i, b.Range, b.Count, want)
		}
	}
}

func TestBucketCountsSumToRecordCount(t *testing.T) {
	analytics := NewAnalytics(scenarioStore())

	buckets, err := analytics.PriceBuckets(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	sum := 0
	for _, b := range buckets {
		sum += b.Count
	}
	if sum != 2 {
		t.Errorf("bucket counts sum = %d, want 2 (all in-range records)", sum)
	}
}

func TestCategoryCountsScenario(t *testing.T) {
	analytics := NewAnalytics(scenarioStore())

	counts, err := analytics.CategoryCounts(context.Background(), 3)
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}

	got := map[string]int{}
	total := 0
	for _, cc := range counts {
		got[cc.Category] = cc.Count
		total += cc.Count
	}
	if !reflect.DeepEqual(got, map[string]int{"A": 1, "B": 1}) {
		t.Errorf("CategoryCounts(3) = %v, want {A:1 B:1}", got)
	}
	if total != 2 {
		t.Errorf("summed category counts = %d, want 2", total)
	}
}

func TestTransactionsPagination(t *testing.T) {
	analytics := NewAnalytics(scenarioStore())
	ctx := context.Background()

	page1, err := analytics.Transactions(ctx, 3, 1, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	page2, err := analytics.Transactions(ctx, 3, 2, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != 1 || len(page2) != 1 || page1[0].ID == page2[0].ID {
		t.Errorf("pages should hold distinct single records, got %v / %v", page1, page2)
	}

	// Past the last page.
	page9, err := analytics.Transactions(ctx, 3, 9, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page9) != 0 {
		t.Errorf("page past the end returned %d records, want 0", len(page9))
	}
}

func TestCombinedMatchesIndependentCalls(t *testing.T) {
	analytics := NewAnalytics(scenarioStore())
	ctx := context.Background()

	view, err := analytics.Combined(ctx, 3, 1, 10, "")
	if err != nil {
		t.Fatalf("Combined: %v", err)
	}

	txns, _ := analytics.Transactions(ctx, 3, 1, 10, "")
	stats, _ := analytics.Statistics(ctx, 3)
	buckets, _ := analytics.PriceBuckets(ctx, 3)
	counts, _ := analytics.CategoryCounts(ctx, 3)

	if !reflect.DeepEqual(view.Transactions, txns) {
		t.Error("combined transactions differ from the independent call")
	}
	if view.Statistics != stats {
		t.Errorf("combined statistics = %+v, want %+v", view.Statistics, stats)
	}
	if !reflect.DeepEqual(view.BarChart, buckets) {
		t.Error("combined bar chart differs from the independent call")
	}
	if toCategorySet(view.PieChart) == nil || !reflect.DeepEqual(toCategorySet(view.PieChart), toCategorySet(counts)) {
		t.Error("combined pie chart differs from the independent call")
	}
}

func TestCombinedFailsFast(t *testing.T) {
	wantErr := errors.New("store down")
	analytics := NewAnalytics(&fakeStore{err: wantErr})

	if _, err := analytics.Combined(context.Background(), 3, 1, 10, ""); !errors.Is(err, wantErr) {
		t.Fatalf("Combined error = %v, want %v", err, wantErr)
	}
}

func toCategorySet(counts []core.CategoryCount) map[core.CategoryCount]struct{} {
	set := make(map[core.CategoryCount]struct{}, len(counts))
	for _, cc := range counts {
		set[cc] = struct{}{}
	}
	return set
}
