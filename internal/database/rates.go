// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/swapmatch/internal/models"
)

// RateTable returns every stored currency rate.
func (db *DB) RateTable(ctx context.Context, token string) (rates models.RateTable, err error) {
	start := time.Now()
	defer func() { observe("rate_table", start, err) }()

	if err := db.authorize(token); err != nil {
		return nil, err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT code, rate FROM currency_rates`)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	rates = make(models.RateTable)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates[code] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}
	return rates, nil
}

// SetRate stores the reference units per one unit of code.
func (db *DB) SetRate(ctx context.Context, code string, rate float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("currency code is required")
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO currency_rates (code, rate) VALUES (?, ?)`, code, rate); err != nil {
		return fmt.Errorf("set rate %s: %w", code, err)
	}
	return nil
}
