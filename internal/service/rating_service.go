package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/repository"
	"github.com/martinresplandy/filmhub-project/internal/status"
)

// ratingStore is the slice of RatingRepository the rating service consumes.
type ratingStore interface {
	Create(userID, movieID, score int, comment string) (*models.Rating, error)
	GetByID(id int) (*models.Rating, error)
	Update(id, score int, comment string) error
	Delete(id int) (int64, error)
	ListByUser(userID int) ([]models.RatingWithMovie, error)
}

// RatingService handles rating CRUD on top of the movie ingestor: rating an
// unseen movie materializes it first.
type RatingService struct {
	ratings  ratingStore
	ingestor materializer
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratings ratingStore, ingestor materializer) *RatingService {
	return &RatingService{ratings: ratings, ingestor: ingestor}
}

// AddRating rates a movie by external id, materializing it on first
// reference. At most one rating per (user, movie).
func (s *RatingService) AddRating(ctx context.Context, userID int, req models.AddRatingRequest) (*models.Rating, error) {
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	movie, err := s.ingestor.Materialize(ctx, req.ExternalID)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratings.Create(userID, movie.ID, req.Score, req.Comment)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, status.Errorf(status.AlreadyExists, "movie %d already rated", req.ExternalID)
		}
		return nil, err
	}
	return rating, nil
}

// UpdateRating changes an existing rating. Ratings belong to their user;
// touching someone else's is indistinguishable from touching a missing one.
func (s *RatingService) UpdateRating(ctx context.Context, userID, ratingID int, req models.UpdateRatingRequest) (*models.Rating, error) {
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	rating, err := s.ownedRating(userID, ratingID)
	if err != nil {
		return nil, err
	}

	if err := s.ratings.Update(ratingID, req.Score, req.Comment); err != nil {
		return nil, err
	}
	rating.Score = req.Score
	rating.Comment = req.Comment
	return rating, nil
}

// DeleteRating removes an existing rating owned by the user.
func (s *RatingService) DeleteRating(ctx context.Context, userID, ratingID int) error {
	if _, err := s.ownedRating(userID, ratingID); err != nil {
		return err
	}

	removed, err := s.ratings.Delete(ratingID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return status.Errorf(status.NotFound, "rating %d not found", ratingID)
	}
	return nil
}

// ListRatings returns all of the user's ratings with their movies.
func (s *RatingService) ListRatings(userID int) ([]models.RatingWithMovie, error) {
	return s.ratings.ListByUser(userID)
}

func (s *RatingService) ownedRating(userID, ratingID int) (*models.Rating, error) {
	rating, err := s.ratings.GetByID(ratingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.Errorf(status.NotFound, "rating %d not found", ratingID)
		}
		return nil, fmt.Errorf("lookup rating %d: %w", ratingID, err)
	}
	if rating.UserID != userID {
		return nil, status.Errorf(status.NotFound, "rating %d not found", ratingID)
	}
	return rating, nil
}

func validateScore(score int) error {
	if score < 1 || score > 5 {
		return status.Errorf(status.Invalid, "score must be between 1 and 5, got %d", score)
	}
	return nil
}
