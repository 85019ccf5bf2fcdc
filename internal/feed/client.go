// Package feed fetches the third-party product transaction dataset
// the store is seeded from.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"salesboard/internal/core"
)

// Record is one entry of the upstream JSON document. The feed's price
// has appeared both as a JSON number and as a quoted decimal string,
// so it is kept raw until parsed.
type Record struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       PriceText  `json:"price"`
	DateOfSale  time.Time  `json:"dateOfSale"`
	Sold        *bool      `json:"isSold"`
	Category    *string    `json:"category"`
}

// PriceText captures a price field that may be a number or a string.
type PriceText string

func (p *PriceText) UnmarshalJSON(b []byte) error {
	*p = PriceText(strings.Trim(strings.TrimSpace(string(b)), `"`))
	return nil
}

// Transaction converts the feed record into a store record. The feed's
// own id is discarded; identity is store-assigned. A missing category
// becomes the empty string, which the category aggregation treats as
// its own group.
func (r Record) Transaction() (core.Transaction, error) {
	price, err := core.ParsePrice(string(r.Price))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("price %q: %w", r.Price, err)
	}
	category := ""
	if r.Category != nil {
		category = *r.Category
	}
	return core.Transaction{
		Title:       r.Title,
		Description: r.Description,
		Price:       price,
		DateOfSale:  r.DateOfSale,
		Sold:        r.Sold,
		Category:    category,
	}, nil
}

// Client fetches the dataset over HTTP.
type Client struct {
	url   string
	httpc *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:   url,
		httpc: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and decodes the full dataset.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return records, nil
}
