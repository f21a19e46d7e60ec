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
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swapmatch/internal/auth"
	"github.com/tomtom215/swapmatch/internal/config"
	"github.com/tomtom215/swapmatch/internal/logging"
	"github.com/tomtom215/swapmatch/internal/metrics"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Verifier validates service credentials.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// DB wraps the DuckDB connection.
type DB struct {
	conn     *sql.DB
	cfg      *config.DatabaseConfig
	verifier Verifier
	logger   zerolog.Logger
}

// New opens the database at cfg.Path and creates the schema. A nil verifier
// accepts every credential.
func New(cfg *config.DatabaseConfig, verifier Verifier) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s", cfg.Path, threads, maxMemory)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(threads)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{
		conn:     conn,
		cfg:      cfg,
		verifier: verifier,
		logger:   logging.WithComponent("database"),
	}
	if err := db.createSchema(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// authorize checks the credential for one read.
func (db *DB) authorize(token string) error {
	if db.verifier == nil {
		return nil
	}
	_, err := db.verifier.Verify(token)
	return err
}

// withTimeout bounds a query by the configured timeout.
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.cfg.QueryTimeout)
}

// observe records a query's duration and outcome.
func observe(op string, start time.Time, err error) {
	metrics.RecordDBQuery(op, time.Since(start), err)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
