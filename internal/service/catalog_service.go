package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/martinresplandy/filmhub-project/internal/lookup"
	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/status"
	"github.com/martinresplandy/filmhub-project/internal/tmdb"
)

const (
	catalogCacheKey = "catalog:sections"
	catalogCacheTTL = 5 * time.Minute
	searchCacheTTL  = 5 * time.Minute

	// sectionLimit caps each catalog section and every search result list.
	sectionLimit = 20
	// directorJob is the crew role kept when searching by director.
	directorJob = "Director"
)

// CatalogService serves the sectioned catalog listing and title/genre/
// director search, built on the TMDB client with concurrent section fetches.
type CatalogService struct {
	catalog catalogAPI
	names   *lookup.Index
	redis   *redis.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalog catalogAPI, names *lookup.Index, rdb *redis.Client) *CatalogService {
	return &CatalogService{catalog: catalog, names: names, redis: rdb}
}

// Catalog fetches the named sections concurrently. A failed section yields
// an empty list for that section only, never a fatal error for the whole
// catalog.
func (s *CatalogService) Catalog(ctx context.Context) (*models.CatalogResponse, error) {
	if cached, err := s.getFromCache(ctx, catalogCacheKey); err == nil {
		var resp models.CatalogResponse
		if json.Unmarshal([]byte(cached), &resp) == nil {
			slog.Debug("catalog cache hit")
			return &resp, nil
		}
	}

	var resp models.CatalogResponse
	sections := []struct {
		name  string
		dest  *[]models.CatalogEntry
		fetch func(ctx context.Context) ([]tmdb.MovieSummary, error)
	}{
		{"popular", &resp.Popular, func(ctx context.Context) ([]tmdb.MovieSummary, error) {
			return s.catalog.Popular(ctx, 1)
		}},
		{"top_rated", &resp.TopRated, func(ctx context.Context) ([]tmdb.MovieSummary, error) {
			return s.catalog.TopRated(ctx, 1)
		}},
		{"action", &resp.Action, s.genreFetch("Action")},
		{"comedy", &resp.Comedy, s.genreFetch("Comedy")},
		{"drama", &resp.Drama, s.genreFetch("Drama")},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, section := range sections {
		g.Go(func() error {
			results, err := section.fetch(gctx)
			if err != nil {
				slog.Warn("catalog section failed", "section", section.name, "error", err)
				*section.dest = []models.CatalogEntry{}
				return nil
			}
			*section.dest = s.formatListing(results)
			return nil
		})
	}
	_ = g.Wait()

	if data, err := json.Marshal(&resp); err == nil {
		s.setCache(ctx, catalogCacheKey, string(data), catalogCacheTTL)
	}

	return &resp, nil
}

func (s *CatalogService) genreFetch(genreName string) func(ctx context.Context) ([]tmdb.MovieSummary, error) {
	return func(ctx context.Context) ([]tmdb.MovieSummary, error) {
		id, ok := s.names.GenreIDByName(genreName)
		if !ok {
			return nil, status.Errorf(status.NotFound, "unknown genre %q", genreName)
		}
		return s.catalog.DiscoverByGenres(ctx, []int{id}, 1)
	}
}

// Search dispatches a query to title search, genre discovery or the
// two-step director flow. An unknown search type is an Invalid outcome.
func (s *CatalogService) Search(ctx context.Context, query, searchType string) ([]models.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, status.Errorf(status.Invalid, "empty search query")
	}

	cacheKey := fmt.Sprintf("search:%s:%s", searchType, strings.ToLower(query))
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var entries []models.CatalogEntry
		if json.Unmarshal([]byte(cached), &entries) == nil {
			slog.Debug("search cache hit", "key", cacheKey)
			return entries, nil
		}
	}

	var (
		entries []models.CatalogEntry
		err     error
	)
	switch searchType {
	case "", "title":
		entries, err = s.searchByTitle(ctx, query)
	case "genre":
		entries, err = s.searchByGenre(ctx, query)
	case "director":
		entries, err = s.searchByDirector(ctx, query)
	default:
		return nil, status.Errorf(status.Invalid, "unknown search type %q", searchType)
	}
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(entries); jsonErr == nil {
		s.setCache(ctx, cacheKey, string(data), searchCacheTTL)
	}

	return entries, nil
}

func (s *CatalogService) searchByTitle(ctx context.Context, query string) ([]models.CatalogEntry, error) {
	results, err := s.catalog.SearchByTitle(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	return s.formatListing(results), nil
}

// searchByGenre resolves the genre name to its id and discovers by it. An
// unknown genre name yields an empty list without a provider call.
func (s *CatalogService) searchByGenre(ctx context.Context, genreName string) ([]models.CatalogEntry, error) {
	id, ok := s.names.GenreIDByName(genreName)
	if !ok {
		return []models.CatalogEntry{}, nil
	}
	results, err := s.catalog.DiscoverByGenres(ctx, []int{id}, 1)
	if err != nil {
		return nil, err
	}
	return s.formatListing(results), nil
}

// searchByDirector takes the first person matching the name and keeps their
// credits with the Director job, capped like every listing.
func (s *CatalogService) searchByDirector(ctx context.Context, name string) ([]models.CatalogEntry, error) {
	people, err := s.catalog.SearchPerson(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return []models.CatalogEntry{}, nil
	}

	credits, err := s.catalog.PersonCredits(ctx, people[0].ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.CatalogEntry, 0, sectionLimit)
	for _, credit := range credits {
		if len(entries) >= sectionLimit {
			break
		}
		if credit.Job != directorJob {
			continue
		}
		if entry, ok := s.formatEntry(credit.MovieSummary); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// formatListing formats up to sectionLimit summaries, dropping entries
// missing a title, poster or id.
func (s *CatalogService) formatListing(results []tmdb.MovieSummary) []models.CatalogEntry {
	entries := make([]models.CatalogEntry, 0, sectionLimit)
	for _, r := range results {
		if len(entries) >= sectionLimit {
			break
		}
		if entry, ok := s.formatEntry(r); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// formatEntry builds the listing shape consumed by the frontend. Genre ids
// with no known name fall back to "Unknown", as does a movie with no genre
// ids at all.
func (s *CatalogService) formatEntry(r tmdb.MovieSummary) (models.CatalogEntry, bool) {
	title := strings.TrimSpace(r.Title)
	if title == "" || r.PosterPath == "" || r.ID == 0 {
		return models.CatalogEntry{}, false
	}

	genreNames := make([]string, 0, len(r.GenreIDs))
	for _, id := range r.GenreIDs {
		if name, ok := s.names.GenreNameByID(id); ok {
			genreNames = append(genreNames, name)
		} else {
			genreNames = append(genreNames, "Unknown")
		}
	}
	genre := "Unknown"
	if len(genreNames) > 0 {
		genre = strings.Join(genreNames, ", ")
	}

	return models.CatalogEntry{
		ExternalID:    r.ID,
		Title:         title,
		PosterURL:     models.ImageBaseW185 + r.PosterPath,
		Genre:         genre,
		Year:          releaseYear(r.ReleaseDate),
		AverageRating: math.Round(r.VoteAverage*10) / 10,
	}, true
}

// ---- Redis helpers ----

func (s *CatalogService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *CatalogService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
