package core

import (
	"errors"
	"time"
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidPrice = errors.New("invalid price")
)

type (
	// Transaction is one product sale record in the store.
	Transaction struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Price       Money     `json:"price"`
		DateOfSale  time.Time `json:"dateOfSale"`
		Sold        *bool     `json:"isSold"`
		Category    string    `json:"category"`
	}

	// MonthRange bounds one calendar month as a half-open interval:
	// Start is the first instant of the month, End the first instant of
	// the following month. A record belongs to the month when
	// Start <= dateOfSale < End.
	MonthRange struct {
		Start time.Time
		End   time.Time
	}
)

// ResolveMonth maps a 1-12 month number onto the current calendar year.
// Any other value fails with ErrInvalidMonth.
func ResolveMonth(month int) (MonthRange, error) {
	return resolveMonthAt(month, time.Now())
}

func resolveMonthAt(month int, now time.Time) (MonthRange, error) {
	if month < 1 || month > 12 {
		return MonthRange{}, ErrInvalidMonth
	}
	start := time.Date(now.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// AddDate rolls December into January of the next year.
	return MonthRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Contains reports whether t falls inside the range.
func (r MonthRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}
