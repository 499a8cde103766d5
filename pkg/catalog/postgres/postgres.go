// Package postgres loads the product catalog from PostgreSQL at
// process start. The catalog stays in memory afterwards; the database
// is never consulted per request.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"petstores/pkg/catalog"
)

// Ensure creates the products table if it does not exist and seeds it
// with the given items when it is empty.
func Ensure(ctx context.Context, db *sql.DB, items []catalog.Item) error {
	const create = `CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		position SERIAL
	)`
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, it := range items {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO products (id, name, price, description, category, image) VALUES ($1,$2,$3,$4,$5,$6)",
			it.ID, it.Name, it.Price.StringFixed(2), it.Description, it.Category, it.Image); err != nil {
			return fmt.Errorf("seed product %s: %w", it.ID, err)
		}
	}
	return nil
}

// Load reads every product in insertion order.
func Load(ctx context.Context, db *sql.DB) ([]catalog.Item, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, name, price, description, category, image FROM products ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var it catalog.Item
		var price string
		if err := rows.Scan(&it.ID, &it.Name, &price, &it.Description, &it.Category, &it.Image); err != nil {
			return nil, err
		}
		it.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("product %s: bad price %q: %w", it.ID, price, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
