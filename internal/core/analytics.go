package core

type (
	// Statistics summarizes one month of sales. Records without a sold
	// flag appear in neither count.
	Statistics struct {
		TotalSales   Money `json:"totalSales"`
		SoldItems    int   `json:"soldItems"`
		NotSoldItems int   `json:"notSoldItems"`
	}

	// PriceBucket is one bar of the fixed price histogram.
	PriceBucket struct {
		Range string `json:"range"`
		Count int    `json:"count"`
	}

	// CategoryCount is one slice of the category breakdown. An absent
	// category groups under the empty string.
	CategoryCount struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}

	// CombinedView bundles the four month-scoped datasets into one
	// payload. Each field is produced independently; nothing is shared
	// between the sub-computations.
	CombinedView struct {
		Transactions []Transaction   `json:"transactions"`
		Statistics   Statistics      `json:"statistics"`
		BarChart     []PriceBucket   `json:"barChart"`
		PieChart     []CategoryCount `json:"pieChart"`
	}
)

// Upper bounds of the first nine price buckets, in cents. Bucket 0 is
// closed at both ends ([0,100]); every later bucket excludes its lower
// bound and includes its upper bound; the tenth bucket is open above
// 900. So 100 lands in bucket 0, 100.01 in bucket 1, 900 in bucket 8
// and 901 in bucket 9.
var bucketUpperCents = [...]int64{
	100_00, 200_00, 300_00, 400_00, 500_00,
	600_00, 700_00, 800_00, 900_00,
}

var bucketLabels = [...]string{
	"0-100", "101-200", "201-300", "301-400", "401-500",
	"501-600", "601-700", "701-800", "801-900", "901-above",
}

// NumPriceBuckets is the fixed number of histogram buckets.
const NumPriceBuckets = len(bucketLabels)

// NewPriceBuckets returns the ten buckets in display order with zero
// counts.
func NewPriceBuckets() []PriceBucket {
	buckets := make([]PriceBucket, NumPriceBuckets)
	for i, label := range bucketLabels {
		buckets[i] = PriceBucket{Range: label}
	}
	return buckets
}

// BucketIndex returns which of the ten buckets the price falls in.
// Every non-negative price lands in exactly one bucket.
func BucketIndex(price Money) int {
	for i, upper := range bucketUpperCents {
		if price.Cents <= upper {
			return i
		}
	}
	return NumPriceBuckets - 1
}
