// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reelrank/reelrank/internal/metrics"
	"github.com/reelrank/reelrank/internal/recommend"
)

// GetMovies returns the full catalog in insertion order. Pipe-delimited
// genre text is split into a slice at this boundary; downstream code
// never sees the raw encoding.
func (db *DB) GetMovies(ctx context.Context) ([]recommend.Movie, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, genres, COALESCE(year, 0) FROM movies ORDER BY id`)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeQuietly(rows)

	var movies []recommend.Movie
	for rows.Next() {
		var m recommend.Movie
		var genres string
		if err := rows.Scan(&m.ID, &m.Title, &genres, &m.Year); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.Genres = SplitGenres(genres)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// GetMovie returns one catalog entry, or sql.ErrNoRows.
func (db *DB) GetMovie(ctx context.Context, movieID int) (*recommend.Movie, error) {
	start := time.Now()

	var m recommend.Movie
	var genres string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, genres, COALESCE(year, 0) FROM movies WHERE id = ?`, movieID).
		Scan(&m.ID, &m.Title, &genres, &m.Year)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query movie %d: %w", movieID, err)
	}
	m.Genres = SplitGenres(genres)
	return &m, nil
}

// InsertMovie adds a catalog entry and returns its assigned ID. Genres
// are joined pipe-delimited for storage.
func (db *DB) InsertMovie(ctx context.Context, title string, genres []string, year int) (int, error) {
	start := time.Now()

	var id int
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO movies (title, genres, year) VALUES (?, ?, ?) RETURNING id`,
		title, strings.Join(genres, "|"), year).Scan(&id)
	metrics.RecordDBQuery("insert", "movies", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("insert movie: %w", err)
	}
	return id, nil
}

// GetAllRatings returns the complete ratings corpus.
func (db *DB) GetAllRatings(ctx context.Context) ([]recommend.Rating, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, value, rated_at FROM ratings ORDER BY user_id, movie_id`)
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeQuietly(rows)

	var ratings []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// GetUserRatings returns one user's current ratings.
func (db *DB) GetUserRatings(ctx context.Context, userID int) ([]recommend.Rating, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, value, rated_at FROM ratings WHERE user_id = ? ORDER BY movie_id`,
		userID)
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query ratings for user %d: %w", userID, err)
	}
	defer closeQuietly(rows)

	var ratings []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// UpsertRating stores a user's rating of a movie, replacing a previous
// rating for the same pair.
func (db *DB) UpsertRating(ctx context.Context, userID, movieID, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("rating value must be in [1,5], got %d", value)
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, value, rated_at)
		 VALUES (?, ?, ?, now())
		 ON CONFLICT (user_id, movie_id) DO UPDATE SET value = excluded.value, rated_at = excluded.rated_at`,
		userID, movieID, value)
	metrics.RecordDBQuery("upsert", "ratings", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// DeleteRating removes a user's rating. Deleting a missing rating is
// not an error; deleted reports whether a row existed.
func (db *DB) DeleteRating(ctx context.Context, userID, movieID int) (bool, error) {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	metrics.RecordDBQuery("delete", "ratings", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("delete rating: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete rating rows affected: %w", err)
	}
	return affected > 0, nil
}

// Counts returns catalog and corpus sizes for the status endpoint.
func (db *DB) Counts(ctx context.Context) (movies, ratings int, err error) {
	start := time.Now()
	err = db.conn.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM movies), (SELECT count(*) FROM ratings)`).
		Scan(&movies, &ratings)
	metrics.RecordDBQuery("select", "counts", time.Since(start), err)
	if err != nil {
		return 0, 0, fmt.Errorf("query counts: %w", err)
	}
	return movies, ratings, nil
}

// SplitGenres splits pipe-delimited genre text into a clean slice.
// Empty segments and surrounding whitespace are dropped.
func SplitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	if len(genres) == 0 {
		return nil
	}
	return genres
}

