package repository

import (
	"database/sql"
	"fmt"

	"github.com/martinresplandy/filmhub-project/internal/models"
)

// ProfileRepository handles the per-user movie sets: watched, watch list
// and recommended.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetOrCreateByUserID returns the user's profile, creating it on first use.
func (r *ProfileRepository) GetOrCreateByUserID(userID int) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.db.QueryRow(`
		INSERT INTO user_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id
	`, userID).Scan(&p.ID, &p.UserID)
	if err != nil {
		return nil, fmt.Errorf("get or create profile: %w", err)
	}
	return &p, nil
}

// AddWatched marks a movie as watched and removes it from the watch list in
// the same transaction: watching supersedes planning-to-watch. A unique
// violation (already watched) is returned as-is for IsUniqueViolation.
func (r *ProfileRepository) AddWatched(profileID, movieID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin add watched: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO profile_watched (profile_id, movie_id) VALUES ($1, $2)
	`, profileID, movieID); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert watched: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM profile_watch_list WHERE profile_id = $1 AND movie_id = $2
	`, profileID, movieID); err != nil {
		return fmt.Errorf("remove from watch list: %w", err)
	}

	return tx.Commit()
}

// RemoveWatched unmarks a movie as watched. Returns the rows removed.
func (r *ProfileRepository) RemoveWatched(profileID, movieID int) (int64, error) {
	return r.removeFrom("profile_watched", profileID, movieID)
}

// AddToWatchList adds a movie to the watch list. A unique violation
// (already listed) is returned as-is for IsUniqueViolation.
func (r *ProfileRepository) AddToWatchList(profileID, movieID int) error {
	_, err := r.db.Exec(`
		INSERT INTO profile_watch_list (profile_id, movie_id) VALUES ($1, $2)
	`, profileID, movieID)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert watch list entry: %w", err)
	}
	return nil
}

// RemoveFromWatchList removes a movie from the watch list. Returns the rows
// removed.
func (r *ProfileRepository) RemoveFromWatchList(profileID, movieID int) (int64, error) {
	return r.removeFrom("profile_watch_list", profileID, movieID)
}

func (r *ProfileRepository) removeFrom(table string, profileID, movieID int) (int64, error) {
	res, err := r.db.Exec(
		fmt.Sprintf(`DELETE FROM %s WHERE profile_id = $1 AND movie_id = $2`, table),
		profileID, movieID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// ListWatched returns the watched movies of a profile.
func (r *ProfileRepository) ListWatched(profileID int) ([]models.Movie, error) {
	return r.listSet("profile_watched", profileID)
}

// ListWatchList returns the watch list of a profile.
func (r *ProfileRepository) ListWatchList(profileID int) ([]models.Movie, error) {
	return r.listSet("profile_watch_list", profileID)
}

func (r *ProfileRepository) listSet(table string, profileID int) ([]models.Movie, error) {
	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT `+movieColumns+`
		FROM %s s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.profile_id = $1
		ORDER BY m.title
	`, table), profileID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

// WatchedExternalIDs returns the external ids of the watched set.
func (r *ProfileRepository) WatchedExternalIDs(profileID int) ([]int, error) {
	return r.setExternalIDs("profile_watched", profileID)
}

// WatchListExternalIDs returns the external ids of the watch list.
func (r *ProfileRepository) WatchListExternalIDs(profileID int) ([]int, error) {
	return r.setExternalIDs("profile_watch_list", profileID)
}

func (r *ProfileRepository) setExternalIDs(table string, profileID int) ([]int, error) {
	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT m.external_id
		FROM %s s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.profile_id = $1
	`, table), profileID)
	if err != nil {
		return nil, fmt.Errorf("query %s ids: %w", table, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetRecommended returns the persisted recommended set in rank order.
func (r *ProfileRepository) GetRecommended(profileID int) ([]models.Movie, error) {
	rows, err := r.db.Query(`
		SELECT `+movieColumns+`
		FROM profile_recommended pr
		JOIN movies m ON m.id = pr.movie_id
		WHERE pr.profile_id = $1
		ORDER BY pr.rank
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query recommended: %w", err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

// ReplaceRecommended swaps the recommended set in one transaction so that
// concurrent readers observe either the old set or the new one, never a
// partially built one. movieIDs arrive in rank order.
func (r *ProfileRepository) ReplaceRecommended(profileID int, movieIDs []int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace recommended: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM profile_recommended WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("clear recommended: %w", err)
	}

	for rank, movieID := range movieIDs {
		if _, err := tx.Exec(`
			INSERT INTO profile_recommended (profile_id, movie_id, rank) VALUES ($1, $2, $3)
		`, profileID, movieID, rank); err != nil {
			return fmt.Errorf("insert recommended: %w", err)
		}
	}

	return tx.Commit()
}

func scanMovies(rows *sql.Rows) ([]models.Movie, error) {
	movies := make([]models.Movie, 0)
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(
			&m.ID, &m.ExternalID, &m.Title, &m.PosterURL, &m.Description,
			&m.Genre, &m.Keyword, &m.Duration, &m.Year, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
