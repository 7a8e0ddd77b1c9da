package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/martinresplandy/filmhub-project/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Callers racing to insert the same row treat this as "re-read and use the
// winner", not as a failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// MovieRepository handles database operations for movies.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `m.id, m.external_id, m.title, m.poster_url, m.description,
	m.genre, m.keyword, m.duration, m.year, m.created_at`

// GetByExternalID returns the movie with the given external id, including
// its average rating. Returns sql.ErrNoRows when absent.
func (r *MovieRepository) GetByExternalID(externalID int) (*models.Movie, error) {
	var m models.Movie
	err := r.db.QueryRow(`
		SELECT `+movieColumns+`, AVG(rt.score)
		FROM movies m
		LEFT JOIN ratings rt ON rt.movie_id = m.id
		WHERE m.external_id = $1
		GROUP BY m.id
	`, externalID).Scan(
		&m.ID, &m.ExternalID, &m.Title, &m.PosterURL, &m.Description,
		&m.Genre, &m.Keyword, &m.Duration, &m.Year, &m.CreatedAt,
		&m.AverageRating,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert stores a new movie and fills in its generated id. A unique
// violation (same external id, or same title/description/genre/year) is
// returned as-is for the caller to detect with IsUniqueViolation.
func (r *MovieRepository) Insert(m *models.Movie) error {
	err := r.db.QueryRow(`
		INSERT INTO movies (external_id, title, poster_url, description, genre, keyword, duration, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, m.ExternalID, m.Title, m.PosterURL, m.Description, m.Genre, m.Keyword, m.Duration, m.Year).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}
