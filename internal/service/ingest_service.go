package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/martinresplandy/filmhub-project/internal/lookup"
	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/repository"
	"github.com/martinresplandy/filmhub-project/internal/status"
	"github.com/martinresplandy/filmhub-project/internal/tmdb"
)

// catalogAPI is the slice of the TMDB client the services consume.
type catalogAPI interface {
	FetchByID(ctx context.Context, externalID int) (*tmdb.MovieDetail, error)
	FetchKeywords(ctx context.Context, externalID int) ([]tmdb.Keyword, error)
	DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]tmdb.MovieSummary, error)
	DiscoverByKeywords(ctx context.Context, keywordIDs []int, page int) ([]tmdb.MovieSummary, error)
	SearchByTitle(ctx context.Context, query string, page int) ([]tmdb.MovieSummary, error)
	SearchPerson(ctx context.Context, name string) ([]tmdb.Person, error)
	PersonCredits(ctx context.Context, personID int) ([]tmdb.Credit, error)
	Popular(ctx context.Context, page int) ([]tmdb.MovieSummary, error)
	TopRated(ctx context.Context, page int) ([]tmdb.MovieSummary, error)
}

// movieStore is the slice of MovieRepository the ingestor consumes.
type movieStore interface {
	GetByExternalID(externalID int) (*models.Movie, error)
	Insert(m *models.Movie) error
}

// MovieIngestor materializes external catalog entries into local Movie rows,
// at most once per external id under concurrent callers.
type MovieIngestor struct {
	movies  movieStore
	catalog catalogAPI
	names   *lookup.Index
}

// NewMovieIngestor creates a new MovieIngestor.
func NewMovieIngestor(movies movieStore, catalog catalogAPI, names *lookup.Index) *MovieIngestor {
	return &MovieIngestor{movies: movies, catalog: catalog, names: names}
}

// Materialize returns the local Movie for an external id, fetching and
// storing it on first reference. Concurrent callers for the same unseen id
// all receive a consistent row: the storage uniqueness constraint is the
// arbiter, and losers re-read the winner's insert.
func (s *MovieIngestor) Materialize(ctx context.Context, externalID int) (*models.Movie, error) {
	// Idempotent fast path.
	movie, err := s.movies.GetByExternalID(externalID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup movie %d: %w", externalID, err)
	}

	detail, err := s.catalog.FetchByID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	// A record without a title or release date is not a real movie.
	if detail.Title == "" || detail.ReleaseDate == "" {
		return nil, status.Errorf(status.NotFound, "provider record %d is incomplete", externalID)
	}

	keywords, err := s.catalog.FetchKeywords(ctx, externalID)
	if err != nil {
		return nil, err
	}

	genreNames := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genreNames = append(genreNames, g.Name)
		s.names.RecordGenre(g.ID, g.Name)
	}
	keywordNames := make([]string, 0, len(keywords))
	for _, k := range keywords {
		keywordNames = append(keywordNames, k.Name)
		s.names.RecordKeyword(k.ID, k.Name)
	}

	posterURL := ""
	if detail.PosterPath != "" {
		posterURL = models.ImageBaseW500 + detail.PosterPath
	}

	movie = &models.Movie{
		ExternalID:  externalID,
		Title:       detail.Title,
		PosterURL:   posterURL,
		Description: detail.Overview,
		Genre:       joinCapped(genreNames, models.MaxJoinedNamesLen),
		Keyword:     joinCapped(keywordNames, models.MaxJoinedNamesLen),
		Duration:    detail.Runtime,
		Year:        releaseYear(detail.ReleaseDate),
	}

	if err := s.movies.Insert(movie); err != nil {
		if repository.IsUniqueViolation(err) {
			// Another caller won the race; their row is the truth.
			slog.Debug("movie insert lost race, re-reading", "external_id", externalID)
			return s.movies.GetByExternalID(externalID)
		}
		return nil, fmt.Errorf("store movie %d: %w", externalID, err)
	}

	slog.Info("materialized movie", "external_id", externalID, "title", movie.Title)
	return movie, nil
}

// joinCapped joins names with ", " and truncates to max bytes. Overflow is
// dropped silently; truncation is lossy but deterministic.
func joinCapped(names []string, max int) string {
	joined := strings.Join(names, ", ")
	if len(joined) > max {
		return joined[:max]
	}
	return joined
}

// releaseYear parses the year prefix of an ISO date string ("2023-10-20").
// Missing or malformed dates yield 0.
func releaseYear(releaseDate string) int {
	prefix, _, _ := strings.Cut(releaseDate, "-")
	year, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return year
}
