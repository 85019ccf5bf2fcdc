package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"salesboard/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func boolPtr(b bool) *bool { return &b }

func marchRange(t *testing.T) core.MonthRange {
	t.Helper()
	year := time.Now().Year()
	start := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	return core.MonthRange{Start: start, End: start.AddDate(0, 1, 0)}
}

func saleDate(month time.Month, day int) time.Time {
	return time.Date(time.Now().Year(), month, day, 14, 30, 0, 0, time.UTC)
}

func seedFixtures(t *testing.T, repo *SQLiteRepository) {
	t.Helper()
	txns := []core.Transaction{
		{Title: "Wireless Mouse", Description: "ergonomic shape", Price: core.Money{Cents: 5000},
			DateOfSale: saleDate(time.March, 5), Sold: boolPtr(true), Category: "electronics"},
		{Title: "Desk Lamp", Description: "warm light", Price: core.Money{Cents: 15000},
			DateOfSale: saleDate(time.March, 12), Sold: boolPtr(false), Category: "home"},
		{Title: "Mystery Box", Description: "contents unknown", Price: core.Money{Cents: 32985},
			DateOfSale: saleDate(time.March, 20), Sold: nil, Category: ""},
		{Title: "Gaming Chair", Description: "lumbar support", Price: core.Money{Cents: 95000},
			DateOfSale: saleDate(time.May, 2), Sold: boolPtr(true), Category: "electronics"},
	}
	if err := repo.ReplaceAll(context.Background(), txns); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
}

func TestSearchTransactions_MonthFilter(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)

	got, err := repo.SearchTransactions(context.Background(), TransactionFilter{
		Range: marchRange(t), Limit: 10,
	})
	if err != nil {
		t.Fatalf("SearchTransactions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	// Insertion order.
	if got[0].Title != "Wireless Mouse" || got[2].Title != "Mystery Box" {
		t.Errorf("unexpected order: %q ... %q", got[0].Title, got[2].Title)
	}
	// Round-trip of nullable sold and date.
	if got[2].Sold != nil {
		t.Error("Mystery Box sold flag should round-trip as nil")
	}
	if want := saleDate(time.March, 5); !got[0].DateOfSale.Equal(want) {
		t.Errorf("dateOfSale = %v, want %v", got[0].DateOfSale, want)
	}
}

func TestSearchTransactions_Search(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)
	mr := marchRange(t)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"title match case-insensitive", "wireless", []string{"Wireless Mouse"}},
		{"description match", "Warm Light", []string{"Desk Lamp"}},
		{"price text match", "329.85", []string{"Mystery Box"}},
		{"price substring", "150", []string{"Desk Lamp"}},
		{"empty search matches everything", "", []string{"Wireless Mouse", "Desk Lamp", "Mystery Box"}},
		{"no match", "zzz", nil},
		{"like metacharacters are literal", "100%", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchTransactions(context.Background(), TransactionFilter{
				Range: mr, Search: tt.search, Limit: 10,
			})
			if err != nil {
				t.Fatalf("SearchTransactions: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Errorf("result %d = %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}

func TestSearchTransactions_Pagination(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)
	mr := marchRange(t)

	page1, err := repo.SearchTransactions(context.Background(), TransactionFilter{Range: mr, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	page2, err := repo.SearchTransactions(context.Background(), TransactionFilter{Range: mr, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != 2 || len(page2) != 1 {
		t.Fatalf("page sizes = %d, %d; want 2, 1", len(page1), len(page2))
	}
	if page1[0].Title != "Wireless Mouse" || page2[0].Title != "Mystery Box" {
		t.Errorf("pagination order wrong: %q / %q", page1[0].Title, page2[0].Title)
	}
}

func TestSoldStatistics(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)

	stats, err := repo.SoldStatistics(context.Background(), marchRange(t))
	if err != nil {
		t.Fatalf("SoldStatistics: %v", err)
	}
	// Mystery Box has no sold flag and must appear in neither count.
	if stats.SoldItems != 1 {
		t.Errorf("soldItems = %d, want 1", stats.SoldItems)
	}
	if stats.NotSoldItems != 1 {
		t.Errorf("notSoldItems = %d, want 1", stats.NotSoldItems)
	}
	if stats.TotalSales.Cents != 5000 {
		t.Errorf("totalSales = %d cents, want 5000", stats.TotalSales.Cents)
	}
}

func TestSoldStatistics_EmptyMonth(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)

	year := time.Now().Year()
	start := time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC)
	stats, err := repo.SoldStatistics(context.Background(), core.MonthRange{Start: start, End: start.AddDate(0, 1, 0)})
	if err != nil {
		t.Fatalf("SoldStatistics: %v", err)
	}
	if stats.TotalSales.Cents != 0 || stats.SoldItems != 0 || stats.NotSoldItems != 0 {
		t.Errorf("empty month statistics = %+v, want zeros", stats)
	}
}

func TestPriceCents(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)

	prices, err := repo.PriceCents(context.Background(), marchRange(t))
	if err != nil {
		t.Fatalf("PriceCents: %v", err)
	}
	if len(prices) != 3 {
		t.Fatalf("got %d prices, want 3", len(prices))
	}
}

func TestCategoryCounts(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)

	counts, err := repo.CategoryCounts(context.Background(), marchRange(t))
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}

	got := map[string]int{}
	total := 0
	for _, cc := range counts {
		got[cc.Category] = cc.Count
		total += cc.Count
	}
	want := map[string]int{"electronics": 1, "home": 1, "": 1}
	for cat, n := range want {
		if got[cat] != n {
			t.Errorf("category %q count = %d, want %d", cat, got[cat], n)
		}
	}
	// Category counts must cover every in-range record.
	if total != 3 {
		t.Errorf("summed category counts = %d, want 3", total)
	}
}

func TestReplaceAllReplaces(t *testing.T) {
	repo := newTestRepo(t)
	seedFixtures(t, repo)

	replacement := []core.Transaction{
		{Title: "Only Item", Price: core.Money{Cents: 100},
			DateOfSale: saleDate(time.March, 1), Sold: boolPtr(true), Category: "misc"},
	}
	if err := repo.ReplaceAll(context.Background(), replacement); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.SearchTransactions(context.Background(), TransactionFilter{Range: marchRange(t), Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Only Item" {
		t.Fatalf("after reseed got %d rows (first %q), want the single replacement row",
			len(got), firstTitle(got))
	}
}

func firstTitle(txns []core.Transaction) string {
	if len(txns) == 0 {
		return ""
	}
	return txns[0].Title
}
