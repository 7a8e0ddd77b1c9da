package repository

import (
	"database/sql"
	"fmt"

	"github.com/martinresplandy/filmhub-project/internal/models"
)

// RatingRepository handles database operations for ratings.
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create stores a rating. A unique violation on (user, movie) is returned
// as-is for the caller to detect with IsUniqueViolation.
func (r *RatingRepository) Create(userID, movieID, score int, comment string) (*models.Rating, error) {
	rating := models.Rating{UserID: userID, MovieID: movieID, Score: score, Comment: comment}
	err := r.db.QueryRow(`
		INSERT INTO ratings (user_id, movie_id, score, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, userID, movieID, score, comment).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}
	return &rating, nil
}

// GetByID returns a rating by its id. Returns sql.ErrNoRows when absent.
func (r *RatingRepository) GetByID(id int) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.QueryRow(`
		SELECT id, user_id, movie_id, score, comment, created_at
		FROM ratings WHERE id = $1
	`, id).Scan(&rating.ID, &rating.UserID, &rating.MovieID, &rating.Score, &rating.Comment, &rating.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Update changes the score and comment of a rating.
func (r *RatingRepository) Update(id, score int, comment string) error {
	_, err := r.db.Exec(`
		UPDATE ratings SET score = $1, comment = $2 WHERE id = $3
	`, score, comment, id)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}

// Delete removes a rating. Returns the number of rows removed.
func (r *RatingRepository) Delete(id int) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete rating: %w", err)
	}
	return res.RowsAffected()
}

// ListByUser returns all ratings of a user joined with their movies.
func (r *RatingRepository) ListByUser(userID int) ([]models.RatingWithMovie, error) {
	rows, err := r.db.Query(`
		SELECT rt.id, rt.user_id, rt.movie_id, rt.score, rt.comment, rt.created_at,
			`+movieColumns+`
		FROM ratings rt
		JOIN movies m ON m.id = rt.movie_id
		WHERE rt.user_id = $1
		ORDER BY rt.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.RatingWithMovie, 0)
	for rows.Next() {
		var rw models.RatingWithMovie
		if err := rows.Scan(
			&rw.ID, &rw.UserID, &rw.MovieID, &rw.Score, &rw.Comment, &rw.CreatedAt,
			&rw.Movie.ID, &rw.Movie.ExternalID, &rw.Movie.Title, &rw.Movie.PosterURL,
			&rw.Movie.Description, &rw.Movie.Genre, &rw.Movie.Keyword,
			&rw.Movie.Duration, &rw.Movie.Year, &rw.Movie.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rw)
	}
	return ratings, rows.Err()
}

// ListRatedMovies returns the score plus stored genre/keyword strings of
// every movie a user has rated; input to taste profile derivation.
func (r *RatingRepository) ListRatedMovies(userID int) ([]models.RatedMovie, error) {
	rows, err := r.db.Query(`
		SELECT rt.score, m.genre, m.keyword
		FROM ratings rt
		JOIN movies m ON m.id = rt.movie_id
		WHERE rt.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rated movies: %w", err)
	}
	defer rows.Close()

	var rated []models.RatedMovie
	for rows.Next() {
		var rm models.RatedMovie
		if err := rows.Scan(&rm.Score, &rm.Genre, &rm.Keyword); err != nil {
			return nil, fmt.Errorf("scan rated movie: %w", err)
		}
		rated = append(rated, rm)
	}
	return rated, rows.Err()
}

// RatedExternalIDs returns the external ids of every movie the user rated.
func (r *RatingRepository) RatedExternalIDs(userID int) ([]int, error) {
	rows, err := r.db.Query(`
		SELECT m.external_id
		FROM ratings rt
		JOIN movies m ON m.id = rt.movie_id
		WHERE rt.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rated ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int, error) {
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
