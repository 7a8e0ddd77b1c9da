package service

import (
	"context"

	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/repository"
	"github.com/martinresplandy/filmhub-project/internal/status"
)

// profileStore is the slice of ProfileRepository the profile service consumes.
type profileStore interface {
	GetOrCreateByUserID(userID int) (*models.UserProfile, error)
	AddWatched(profileID, movieID int) error
	RemoveWatched(profileID, movieID int) (int64, error)
	AddToWatchList(profileID, movieID int) error
	RemoveFromWatchList(profileID, movieID int) (int64, error)
	ListWatched(profileID int) ([]models.Movie, error)
	ListWatchList(profileID int) ([]models.Movie, error)
}

// ProfileService handles the watched and watch-list sets of a user.
type ProfileService struct {
	profiles profileStore
	ingestor materializer
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles profileStore, ingestor materializer) *ProfileService {
	return &ProfileService{profiles: profiles, ingestor: ingestor}
}

// AddWatched marks a movie as watched, materializing it on first reference.
// The movie leaves the watch list at the same time if it was on it.
func (s *ProfileService) AddWatched(ctx context.Context, userID, externalID int) (*models.Movie, error) {
	profile, movie, err := s.resolve(ctx, userID, externalID)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.AddWatched(profile.ID, movie.ID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, status.Errorf(status.AlreadyExists, "movie %d already watched", externalID)
		}
		return nil, err
	}
	return movie, nil
}

// RemoveWatched unmarks a watched movie.
func (s *ProfileService) RemoveWatched(ctx context.Context, userID, externalID int) error {
	profile, movie, err := s.resolve(ctx, userID, externalID)
	if err != nil {
		return err
	}

	removed, err := s.profiles.RemoveWatched(profile.ID, movie.ID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return status.Errorf(status.NotFound, "movie %d is not watched", externalID)
	}
	return nil
}

// AddToWatchList puts a movie on the watch list, materializing it on first
// reference.
func (s *ProfileService) AddToWatchList(ctx context.Context, userID, externalID int) (*models.Movie, error) {
	profile, movie, err := s.resolve(ctx, userID, externalID)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.AddToWatchList(profile.ID, movie.ID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, status.Errorf(status.AlreadyExists, "movie %d already on watch list", externalID)
		}
		return nil, err
	}
	return movie, nil
}

// RemoveFromWatchList takes a movie off the watch list.
func (s *ProfileService) RemoveFromWatchList(ctx context.Context, userID, externalID int) error {
	profile, movie, err := s.resolve(ctx, userID, externalID)
	if err != nil {
		return err
	}

	removed, err := s.profiles.RemoveFromWatchList(profile.ID, movie.ID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return status.Errorf(status.NotFound, "movie %d is not on the watch list", externalID)
	}
	return nil
}

// ListWatched returns the user's watched movies.
func (s *ProfileService) ListWatched(userID int) ([]models.Movie, error) {
	profile, err := s.profiles.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.ListWatched(profile.ID)
}

// ListWatchList returns the user's watch list.
func (s *ProfileService) ListWatchList(userID int) ([]models.Movie, error) {
	profile, err := s.profiles.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.ListWatchList(profile.ID)
}

func (s *ProfileService) resolve(ctx context.Context, userID, externalID int) (*models.UserProfile, *models.Movie, error) {
	profile, err := s.profiles.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	movie, err := s.ingestor.Materialize(ctx, externalID)
	if err != nil {
		return nil, nil, err
	}
	return profile, movie, nil
}
