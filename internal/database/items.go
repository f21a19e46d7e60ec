// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swapmatch/internal/models"
)

const itemColumns = `i.id, i.owner_id, i.title, i.price, i.currency, i.category_id,
	i.lat, i.lng, i.embedding, i.created_at, i.status`

// referencePriceExpr converts i.price to the reference unit using the rate
// table. Missing or non-positive rates count as 1.
const referencePriceExpr = `(i.price * CASE WHEN r.rate > 0 THEN r.rate ELSE 1 END)`

const rateJoin = `LEFT JOIN currency_rates r ON r.code = upper(trim(i.currency))`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner, extra ...any) (models.Item, error) {
	var (
		it        models.Item
		category  sql.NullString
		lat, lng  sql.NullFloat64
		embedding sql.NullString
		status    string
	)
	dest := append([]any{
		&it.ID, &it.OwnerID, &it.Title, &it.Price.Amount, &it.Price.Currency, &category,
		&lat, &lng, &embedding, &it.CreatedAt, &status,
	}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return it, err
	}

	it.Status = models.ItemStatus(status)
	if category.Valid {
		c := category.String
		it.CategoryID = &c
	}
	if lat.Valid && lng.Valid {
		it.Location = &models.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if embedding.Valid && embedding.String != "" {
		if err := json.Unmarshal([]byte(embedding.String), &it.Embedding); err != nil {
			return it, fmt.Errorf("decode embedding of item %s: %w", it.ID, err)
		}
	}
	return it, nil
}

// queryItems runs a query returning itemColumns rows.
func (db *DB) queryItems(ctx context.Context, op, token, query string, args ...any) (items []models.Item, err error) {
	start := time.Now()
	defer func() { observe(op, start, err) }()

	if err := db.authorize(token); err != nil {
		return nil, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}
	return items, nil
}

// OwnedItems returns the user's available items.
func (db *DB) OwnedItems(ctx context.Context, token, userID string) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items i
		WHERE i.owner_id = ? AND i.status = 'available'
		ORDER BY i.created_at, i.id`
	return db.queryItems(ctx, "owned_items", token, query, userID)
}

// FavoriteCategoryPool returns other users' available items in any of the
// given categories, newest first.
func (db *DB) FavoriteCategoryPool(ctx context.Context, token, userID string, categories []string, limit int) ([]models.Item, error) {
	if len(categories) == 0 {
		return nil, db.authorize(token)
	}

	args := make([]any, 0, len(categories)+2)
	args = append(args, userID)
	for _, c := range categories {
		args = append(args, c)
	}
	args = append(args, limit)

	query := `SELECT ` + itemColumns + `
		FROM items i
		WHERE i.owner_id <> ? AND i.status = 'available'
		  AND i.category_id IN (` + placeholders(len(categories)) + `)
		ORDER BY i.created_at DESC, i.id
		LIMIT ?`
	return db.queryItems(ctx, "favorite_pool", token, query, args...)
}

// CostSimilarPool returns other users' available items whose reference-unit
// price lies within center*(1±tolerance), closest first.
func (db *DB) CostSimilarPool(ctx context.Context, token, userID string, center, tolerance float64, limit int) ([]models.Item, error) {
	if center <= 0 {
		return nil, db.authorize(token)
	}
	low, high := center*(1-tolerance), center*(1+tolerance)

	query := `SELECT ` + itemColumns + `
		FROM items i ` + rateJoin + `
		WHERE i.owner_id <> ? AND i.status = 'available'
		  AND ` + referencePriceExpr + ` BETWEEN ? AND ?
		ORDER BY abs(` + referencePriceExpr + ` - ?), i.created_at DESC, i.id
		LIMIT ?`
	return db.queryItems(ctx, "cost_pool", token, query, userID, low, high, center, limit)
}

// RecentPool returns other users' most recently listed available items.
func (db *DB) RecentPool(ctx context.Context, token, userID string, limit int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items i
		WHERE i.owner_id <> ? AND i.status = 'available'
		ORDER BY i.created_at DESC, i.id
		LIMIT ?`
	return db.queryItems(ctx, "recent_pool", token, query, userID, limit)
}

// UpsertItem inserts or replaces an item.
func (db *DB) UpsertItem(ctx context.Context, it models.Item) (err error) {
	start := time.Now()
	defer func() { observe("upsert_item", start, err) }()

	if it.ID == "" || it.OwnerID == "" {
		return fmt.Errorf("item id and owner id are required")
	}
	if it.Status == "" {
		it.Status = models.ItemAvailable
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	var category, lat, lng, embedding any
	if it.CategoryID != nil {
		category = *it.CategoryID
	}
	if it.Location != nil {
		lat, lng = it.Location.Lat, it.Location.Lng
	}
	if len(it.Embedding) > 0 {
		b, err := json.Marshal(it.Embedding)
		if err != nil {
			return fmt.Errorf("encode embedding: %w", err)
		}
		embedding = string(b)
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `INSERT OR REPLACE INTO items
		(id, owner_id, title, price, currency, category_id, lat, lng, embedding, embedding_dim, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.OwnerID, it.Title, it.Price.Amount, strings.ToUpper(strings.TrimSpace(it.Price.Currency)),
		category, lat, lng, embedding, len(it.Embedding), it.CreatedAt, string(it.Status))
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID, err)
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
