package core

import "testing"

func TestBucketIndexBoundaries(t *testing.T) {
	tests := []struct {
		price string
		want  int
	}{
		{"0", 0},
		{"50", 0},
		{"100", 0},   // first bucket closed at both ends
		{"100.01", 1},
		{"101", 1},
		{"200", 1},
		{"200.01", 2},
		{"500", 4},
		{"899.99", 8},
		{"900", 8}, // ninth bucket includes its upper bound
		{"900.01", 9},
		{"901", 9},
		{"15000", 9}, // open-ended above 900
	}
	for _, tt := range tests {
		m, err := ParsePrice(tt.price)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", tt.price, err)
		}
		if got := BucketIndex(m); got != tt.want {
			t.Errorf("BucketIndex(%s) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestBucketsPartitionPriceSpace(t *testing.T) {
	// Every non-negative price must land in exactly one bucket.
	for cents := int64(0); cents <= 100_000_00; cents += 33 {
		idx := BucketIndex(Money{Cents: cents})
		if idx < 0 || idx >= NumPriceBuckets {
			t.Fatalf("BucketIndex(%d cents) = %d, out of range", cents, idx)
		}
	}
}

func TestNewPriceBuckets(t *testing.T) {
	buckets := NewPriceBuckets()
	wantLabels := []string{
		"0-100", "101-200", "201-300", "301-400", "401-500",
		"501-600", "601-700", "701-800", "801-900", "901-above",
	}
	if len(buckets) != len(wantLabels) {
		t.Fatalf("len = %d, want %d", len(buckets), len(wantLabels))
	}
	for i, b := range buckets {
		if b.Range != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Range, wantLabels[i])
		}
		if b.Count != 0 {
			t.Errorf("bucket %d count = %d, want 0", i, b.Count)
		}
	}
}
