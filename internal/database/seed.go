// ReelRank - Movie Discovery and Recommendation Service
// Copyright 2026 ReelRank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package database

import (
	"context"
	"fmt"
)

type seedMovie struct {
	title  string
	genres string
	year   int
}

type seedRating struct {
	userID  int
	movieID int
	value   int
}

// A small starter catalog for demos and local development. Seeding is
// skipped entirely when the movies table already has rows, so restarts
// of a persistent database never duplicate data.
var seedMovies = []seedMovie{
	{"The Midnight Courier", "Thriller|Crime", 2019},
	{"Harbor Lights", "Drama|Romance", 2017},
	{"Quantum Alley", "Sci-Fi|Thriller", 2021},
	{"The Last Orchard", "Drama", 2015},
	{"Paper Planes Over Prague", "Drama|Romance", 2020},
	{"Static Fields", "Sci-Fi|Mystery", 2018},
	{"The Comedian's Funeral", "Comedy|Drama", 2016},
	{"Ironclad Summer", "Action|Adventure", 2022},
	{"Glass Mountain", "Adventure|Drama", 2014},
	{"Night Shift at the Aquarium", "Comedy", 2023},
	{"The Cartographer's Daughter", "Mystery|Drama", 2019},
	{"Redline Protocol", "Action|Thriller", 2021},
	{"Slow Boat to Anywhere", "Comedy|Romance", 2018},
	{"The Hollow Frequency", "Horror|Mystery", 2020},
	{"Winterlight", "Drama|Mystery", 2022},
}

var seedRatings = []seedRating{
	{1, 1, 5}, {1, 3, 4}, {1, 6, 4}, {1, 12, 5}, {1, 14, 2},
	{2, 2, 5}, {2, 5, 4}, {2, 13, 4}, {2, 4, 5}, {2, 1, 2},
	{3, 1, 4}, {3, 3, 5}, {3, 8, 4}, {3, 12, 4}, {3, 10, 3},
	{4, 7, 5}, {4, 10, 4}, {4, 13, 5}, {4, 2, 3},
	{5, 4, 4}, {5, 9, 4}, {5, 11, 5}, {5, 15, 4}, {5, 14, 1},
	{6, 6, 5}, {6, 11, 4}, {6, 14, 4}, {6, 3, 4},
	{7, 8, 5}, {7, 12, 5}, {7, 1, 4}, {7, 9, 3},
	{8, 5, 5}, {8, 2, 4}, {8, 13, 3}, {8, 7, 4},
}

// seedSampleData populates an empty database with the starter catalog.
func (db *DB) seedSampleData(ctx context.Context) error {
	var existing int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&existing); err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if existing > 0 {
		db.logger.Debug().Int("movies", existing).Msg("Database already populated, skipping seed")
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range seedMovies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movies (title, genres, year) VALUES (?, ?, ?)`,
			m.title, m.genres, m.year); err != nil {
			return fmt.Errorf("seed movie %q: %w", m.title, err)
		}
	}
	for _, r := range seedRatings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ratings (user_id, movie_id, value) VALUES (?, ?, ?)`,
			r.userID, r.movieID, r.value); err != nil {
			return fmt.Errorf("seed rating user=%d movie=%d: %w", r.userID, r.movieID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	db.logger.Info().
		Int("movies", len(seedMovies)).
		Int("ratings", len(seedRatings)).
		Msg("Seeded sample data")
	return nil
}
