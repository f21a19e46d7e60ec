// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/swapmatch/internal/models"
)

// UserProfile returns the stored profile. ErrNotFound when the user has no row.
func (db *DB) UserProfile(ctx context.Context, token, userID string) (p *models.UserProfile, err error) {
	start := time.Now()
	defer func() { observe("user_profile", start, err) }()

	if err := db.authorize(token); err != nil {
		return nil, err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var lat, lng, radius sql.NullFloat64
	err = db.conn.QueryRowContext(ctx,
		`SELECT lat, lng, radius_km FROM users WHERE id = ?`, userID,
	).Scan(&lat, &lng, &radius)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", userID, err)
	}

	p = &models.UserProfile{UserID: userID, FavoriteCategories: []string{}}
	if lat.Valid && lng.Valid {
		p.Location = &models.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if radius.Valid {
		p.RadiusKm = radius.Float64
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT category_id FROM user_favorite_categories WHERE user_id = ? ORDER BY category_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites of %s: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		p.FavoriteCategories = append(p.FavoriteCategories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return p, nil
}

// UpsertUser stores the profile and replaces its favorite categories.
func (db *DB) UpsertUser(ctx context.Context, p models.UserProfile) (err error) {
	start := time.Now()
	defer func() { observe("upsert_user", start, err) }()

	if p.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	var lat, lng, radius any
	if p.Location != nil {
		lat, lng = p.Location.Lat, p.Location.Lng
	}
	if p.RadiusKm > 0 {
		radius = p.RadiusKm
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	if _, err = db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (id, lat, lng, radius_km) VALUES (?, ?, ?, ?)`,
		p.UserID, lat, lng, radius); err != nil {
		return fmt.Errorf("upsert user %s: %w", p.UserID, err)
	}
	return db.SetFavorites(ctx, p.UserID, p.FavoriteCategories)
}

// SetFavorites replaces the user's favorite categories.
func (db *DB) SetFavorites(ctx context.Context, userID string, categories []string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_favorite_categories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear favorites of %s: %w", userID, err)
	}
	for _, c := range categories {
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO user_favorite_categories (user_id, category_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			userID, c); err != nil {
			return fmt.Errorf("insert favorite %s of %s: %w", c, userID, err)
		}
	}
	return nil
}
