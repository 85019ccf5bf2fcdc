// Package storage implements the SQLite-backed transaction store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salesboard/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is the fixed-length UTC rendering used for date_of_sale.
// Fixed length keeps lexicographic comparison identical to
// chronological comparison, which the range predicates rely on.
const timeLayout = "2006-01-02T15:04:05.000Z"

// priceTextExpr renders price_cents as the canonical two-decimal text
// used for price substring search. Must match core.Money.Text.
const priceTextExpr = `printf('%d.%02d', price_cents / 100, price_cents % 100)`

// TransactionFilter carries the predicates of one listing query.
type TransactionFilter struct {
	Range  core.MonthRange
	Search string // case-insensitive substring; empty matches everything
	Offset int
	Limit  int
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the store is reachable. Used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ReplaceAll clears the store and bulk-loads the given records inside
// one transaction, so concurrent readers observe either the old or the
// new dataset, never a half-seeded one. Record IDs are store-assigned;
// listing order is insertion order.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, txns []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (title, description, price_cents, date_of_sale, sold, category)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		var sold sql.NullBool
		if t.Sold != nil {
			sold = sql.NullBool{Bool: *t.Sold, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			t.Title,
			t.Description,
			t.Price.Cents,
			t.DateOfSale.UTC().Format(timeLayout),
			sold,
			t.Category,
		)
		if err != nil {
			return fmt.Errorf("insert transaction %q: %w", t.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction store reseeded", "count", len(txns))
	return nil
}

// SearchTransactions returns the filter's page of records in insertion
// order. Search matches title, description and the two-decimal price
// text, case-insensitively.
func (r *SQLiteRepository) SearchTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	query := `
		SELECT id, title, description, price_cents, date_of_sale, sold, category
		FROM transactions
		WHERE date_of_sale >= ? AND date_of_sale < ?`
	args := []any{
		f.Range.Start.UTC().Format(timeLayout),
		f.Range.End.UTC().Format(timeLayout),
	}

	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		query += `
		AND (lower(title) LIKE ? ESCAPE '\'
		  OR lower(description) LIKE ? ESCAPE '\'
		  OR ` + priceTextExpr + ` LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern, pattern)
	}

	query += `
		ORDER BY id
		LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// SoldStatistics aggregates the month's revenue and sold/unsold
// counts. Rows whose sold flag is NULL are excluded from both counts
// and from the revenue sum.
func (r *SQLiteRepository) SoldStatistics(ctx context.Context, mr core.MonthRange) (core.Statistics, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN sold = 1 THEN price_cents END), 0),
		       COUNT(CASE WHEN sold = 1 THEN 1 END),
		       COUNT(CASE WHEN sold = 0 THEN 1 END)
		FROM transactions
		WHERE date_of_sale >= ? AND date_of_sale < ?`,
		mr.Start.UTC().Format(timeLayout),
		mr.End.UTC().Format(timeLayout),
	)

	var stats core.Statistics
	if err := row.Scan(&stats.TotalSales.Cents, &stats.SoldItems, &stats.NotSoldItems); err != nil {
		return core.Statistics{}, fmt.Errorf("sold statistics: %w", err)
	}
	return stats, nil
}

// PriceCents returns the price of every record in the range. Bucket
// assignment happens in the analytics layer, where the boundary policy
// lives.
func (r *SQLiteRepository) PriceCents(ctx context.Context, mr core.MonthRange) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT price_cents
		FROM transactions
		WHERE date_of_sale >= ? AND date_of_sale < ?`,
		mr.Start.UTC().Format(timeLayout),
		mr.End.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("price cents: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var cents int64
		if err := rows.Scan(&cents); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		out = append(out, cents)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prices: %w", err)
	}
	return out, nil
}

// CategoryCounts groups the month's records by category. Order is the
// store's grouping order and not meaningful to callers.
func (r *SQLiteRepository) CategoryCounts(ctx context.Context, mr core.MonthRange) ([]core.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM transactions
		WHERE date_of_sale >= ? AND date_of_sale < ?
		GROUP BY category`,
		mr.Start.UTC().Format(timeLayout),
		mr.End.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryCount
	for rows.Next() {
		var cc core.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return out, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t        core.Transaction
		dateText string
		sold     sql.NullBool
	)
	if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Price.Cents, &dateText, &sold, &t.Category); err != nil {
		return core.Transaction{}, err
	}
	date, err := time.Parse(timeLayout, dateText)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date_of_sale %q: %w", dateText, err)
	}
	t.DateOfSale = date
	if sold.Valid {
		t.Sold = &sold.Bool
	}
	return t, nil
}

// escapeLike escapes LIKE metacharacters so user input is matched
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
