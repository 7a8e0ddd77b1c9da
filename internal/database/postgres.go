package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/martinresplandy/filmhub-project/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(150) UNIQUE NOT NULL,
			email VARCHAR(254) UNIQUE NOT NULL,
			password_hash VARCHAR(128) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		// external_id is the only cross-reference key trusted for movies.
		// The secondary constraint rejects near-duplicate inserts racing on
		// different external ids.
		`CREATE TABLE IF NOT EXISTS movies (
			id SERIAL PRIMARY KEY,
			external_id INTEGER UNIQUE NOT NULL,
			title VARCHAR(255) NOT NULL,
			poster_url VARCHAR(500) DEFAULT '',
			description TEXT DEFAULT '',
			genre VARCHAR(255) DEFAULT '',
			keyword VARCHAR(255) DEFAULT '',
			duration INTEGER DEFAULT 0,
			year INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			CONSTRAINT movies_content_unique UNIQUE (title, description, genre, year)
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
			score INTEGER NOT NULL,
			comment TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW(),
			CONSTRAINT ratings_user_movie_unique UNIQUE (user_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS profile_watched (
			profile_id INTEGER REFERENCES user_profiles(id) ON DELETE CASCADE,
			movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
			PRIMARY KEY (profile_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS profile_watch_list (
			profile_id INTEGER REFERENCES user_profiles(id) ON DELETE CASCADE,
			movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
			PRIMARY KEY (profile_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS profile_recommended (
			profile_id INTEGER REFERENCES user_profiles(id) ON DELETE CASCADE,
			movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (profile_id, movie_id)
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_movies_external_id ON movies(external_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user_id ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_profile_recommended_rank ON profile_recommended(profile_id, rank)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
