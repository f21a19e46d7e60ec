// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id        VARCHAR PRIMARY KEY,
		lat       DOUBLE,
		lng       DOUBLE,
		radius_km DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS user_favorite_categories (
		user_id     VARCHAR NOT NULL,
		category_id VARCHAR NOT NULL,
		PRIMARY KEY (user_id, category_id)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id            VARCHAR PRIMARY KEY,
		owner_id      VARCHAR NOT NULL,
		title         VARCHAR NOT NULL,
		price         DOUBLE NOT NULL DEFAULT 0,
		currency      VARCHAR NOT NULL DEFAULT '',
		category_id   VARCHAR,
		lat           DOUBLE,
		lng           DOUBLE,
		embedding     VARCHAR,
		embedding_dim INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMP NOT NULL,
		status        VARCHAR NOT NULL DEFAULT 'available'
	)`,
	`CREATE TABLE IF NOT EXISTS currency_rates (
		code VARCHAR PRIMARY KEY,
		rate DOUBLE NOT NULL
	)`,
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
