// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package database provides DuckDB-backed storage for the movie catalog
// and ratings corpus, plus the circuit-breaker-protected data provider
// the recommendation engine reads through.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb driver
	"github.com/rs/zerolog"

	"github.com/reelrank/reelrank/internal/config"
)

// DB wraps the DuckDB connection pool.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	logger zerolog.Logger
}

// New opens (or creates) the database, configures the pool, and
// initializes the schema. An empty or ":memory:" path opens an
// in-memory database.
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		// DuckDB does not create missing parent directories itself.
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Auto-install/auto-load stays off so startup cannot hang on
	// network fetches in restricted environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "database").Logger(),
	}

	db.configurePool(numThreads)

	if err := db.initSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if cfg.SeedData {
		if err := db.seedSampleData(context.Background()); err != nil {
			db.logger.Warn().Err(err).Msg("sample data seeding failed")
		}
	}

	db.logger.Info().Str("path", path).Int("threads", numThreads).Msg("database ready")
	return db, nil
}

// configurePool sizes the connection pool for DuckDB's in-process model.
func (db *DB) configurePool(numThreads int) {
	db.conn.SetMaxOpenConns(numThreads)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initSchema creates the catalog and ratings tables. Genres are stored
// pipe-delimited as delivered by the catalog feed and split on read.
func (db *DB) initSchema() error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS movies_id_seq`,
		`CREATE TABLE IF NOT EXISTS movies (
			id     INTEGER PRIMARY KEY DEFAULT nextval('movies_id_seq'),
			title  VARCHAR NOT NULL,
			genres VARCHAR NOT NULL DEFAULT '',
			year   INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id  INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			value    INTEGER NOT NULL CHECK (value BETWEEN 1 AND 5),
			rated_at TIMESTAMP NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings (movie_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// closeQuietly closes without surfacing the error.
func closeQuietly(c interface{ Close() error }) {
	_ = c.Close()
}
