package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/martinresplandy/filmhub-project/internal/lookup"
	"github.com/martinresplandy/filmhub-project/internal/models"
)

const (
	// likedThreshold is the minimum score (1-5 scale) for a rating to count
	// as "liked" when deriving the taste profile.
	likedThreshold = 3
	// genrePoints and keywordPoints weight the two discover branches.
	// Keyword overlap is a stronger taste signal than broad genre overlap.
	genrePoints   = 1
	keywordPoints = 3
	// maxRecommendations caps the persisted recommended set.
	maxRecommendations = 20
	// fanOutLimit bounds concurrent outbound provider calls per refresh.
	fanOutLimit = 5
)

// ratingTasteStore is the slice of RatingRepository the engine consumes.
type ratingTasteStore interface {
	ListRatedMovies(userID int) ([]models.RatedMovie, error)
	RatedExternalIDs(userID int) ([]int, error)
}

// recommendationStore is the slice of ProfileRepository the engine consumes.
type recommendationStore interface {
	GetOrCreateByUserID(userID int) (*models.UserProfile, error)
	WatchedExternalIDs(profileID int) ([]int, error)
	WatchListExternalIDs(profileID int) ([]int, error)
	GetRecommended(profileID int) ([]models.Movie, error)
	ReplaceRecommended(profileID int, movieIDs []int) error
}

// materializer is the slice of MovieIngestor the engine consumes.
type materializer interface {
	Materialize(ctx context.Context, externalID int) (*models.Movie, error)
}

// RecommendationService derives a user's taste profile from their ratings,
// fans out discover queries per liked attribute, scores and ranks the
// candidates, and persists a capped recommended set.
type RecommendationService struct {
	ratings  ratingTasteStore
	profiles recommendationStore
	ingestor materializer
	catalog  catalogAPI
	names    *lookup.Index
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(
	ratings ratingTasteStore,
	profiles recommendationStore,
	ingestor materializer,
	catalog catalogAPI,
	names *lookup.Index,
) *RecommendationService {
	return &RecommendationService{
		ratings:  ratings,
		profiles: profiles,
		ingestor: ingestor,
		catalog:  catalog,
		names:    names,
	}
}

// GetRecommended returns the user's current persisted recommended set in
// rank order. It never triggers a refresh itself; lazy fill on empty read
// is the handler's policy.
func (s *RecommendationService) GetRecommended(userID int) ([]models.Movie, error) {
	profile, err := s.profiles.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetRecommended(profile.ID)
}

// Refresh recomputes the user's recommended set and replaces the persisted
// one. A failed discover branch or a failed candidate ingestion degrades the
// result, it never fails the refresh. An empty taste profile clears the set
// without any provider call.
func (s *RecommendationService) Refresh(ctx context.Context, userID int) ([]models.Movie, error) {
	profile, err := s.profiles.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	taste, err := s.buildTasteProfile(userID)
	if err != nil {
		return nil, err
	}
	if taste.Empty() {
		slog.Info("empty taste profile, clearing recommendations", "user_id", userID)
		if err := s.profiles.ReplaceRecommended(profile.ID, nil); err != nil {
			return nil, err
		}
		return []models.Movie{}, nil
	}

	scores := s.scoreCandidates(ctx, taste)
	if len(scores) == 0 {
		// Both branches failed or returned nothing; keep the old set rather
		// than wiping it over a provider outage.
		slog.Warn("discover queries produced no candidates", "user_id", userID)
		return s.profiles.GetRecommended(profile.ID)
	}

	excluded, err := s.exclusionSet(userID, profile.ID)
	if err != nil {
		return nil, err
	}

	ranked := rankCandidates(scores)
	picked, err := s.materializeRanked(ctx, ranked, excluded)
	if err != nil {
		return nil, err
	}

	movieIDs := make([]int, len(picked))
	for i, m := range picked {
		movieIDs[i] = m.ID
	}
	if err := s.profiles.ReplaceRecommended(profile.ID, movieIDs); err != nil {
		return nil, err
	}

	slog.Info("recommendations refreshed", "user_id", userID, "count", len(picked))
	return picked, nil
}

// buildTasteProfile derives the liked genre and keyword id sets from the
// user's ratings at or above likedThreshold. Stored names with no known id
// are dropped, not errored.
func (s *RecommendationService) buildTasteProfile(userID int) (models.TasteProfile, error) {
	rated, err := s.ratings.ListRatedMovies(userID)
	if err != nil {
		return models.TasteProfile{}, err
	}

	genreIDs := make(map[int]struct{})
	keywordIDs := make(map[int]struct{})
	for _, rm := range rated {
		if rm.Score < likedThreshold {
			continue
		}
		for _, name := range splitNames(rm.Genre) {
			if id, ok := s.names.GenreIDByName(name); ok {
				genreIDs[id] = struct{}{}
			}
		}
		for _, name := range splitNames(rm.Keyword) {
			if id, ok := s.names.KeywordIDByName(name); ok {
				keywordIDs[id] = struct{}{}
			}
		}
	}

	return models.TasteProfile{
		GenreIDs:   sortedKeys(genreIDs),
		KeywordIDs: sortedKeys(keywordIDs),
	}, nil
}

// scoreCandidates issues the genre and keyword discover branches
// concurrently and accumulates points per external id. A movie surfacing in
// both branches accumulates both point values. A failed branch is logged
// and contributes nothing.
func (s *RecommendationService) scoreCandidates(ctx context.Context, taste models.TasteProfile) map[int]int {
	var mu sync.Mutex
	scores := make(map[int]int)

	g, gctx := errgroup.WithContext(ctx)
	if len(taste.GenreIDs) > 0 {
		g.Go(func() error {
			results, err := s.catalog.DiscoverByGenres(gctx, taste.GenreIDs, 1)
			if err != nil {
				slog.Warn("genre discover failed", "error", err)
				return nil
			}
			mu.Lock()
			for _, r := range results {
				scores[r.ID] += genrePoints
			}
			mu.Unlock()
			return nil
		})
	}
	if len(taste.KeywordIDs) > 0 {
		g.Go(func() error {
			results, err := s.catalog.DiscoverByKeywords(gctx, taste.KeywordIDs, 1)
			if err != nil {
				slog.Warn("keyword discover failed", "error", err)
				return nil
			}
			mu.Lock()
			for _, r := range results {
				scores[r.ID] += keywordPoints
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return scores
}

// exclusionSet unions the external ids a user has watched, listed to watch,
// or rated; those never enter the recommended set.
func (s *RecommendationService) exclusionSet(userID, profileID int) (map[int]struct{}, error) {
	watched, err := s.profiles.WatchedExternalIDs(profileID)
	if err != nil {
		return nil, err
	}
	listed, err := s.profiles.WatchListExternalIDs(profileID)
	if err != nil {
		return nil, err
	}
	rated, err := s.ratings.RatedExternalIDs(userID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[int]struct{}, len(watched)+len(listed)+len(rated))
	for _, set := range [][]int{watched, listed, rated} {
		for _, id := range set {
			excluded[id] = struct{}{}
		}
	}
	return excluded, nil
}

type candidate struct {
	externalID int
	score      int
}

// rankCandidates orders candidates by accumulated score descending; ties
// break on ascending external id so the ranking is stable.
func rankCandidates(scores map[int]int) []candidate {
	ranked := make([]candidate, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, candidate{externalID: id, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].externalID < ranked[j].externalID
	})
	return ranked
}

// materializeRanked walks the ranked candidates, skips excluded ones,
// materializes the rest through a bounded worker pool, and returns up to
// maxRecommendations movies in rank order. A candidate whose ingestion
// fails is skipped, not fatal.
func (s *RecommendationService) materializeRanked(ctx context.Context, ranked []candidate, excluded map[int]struct{}) ([]models.Movie, error) {
	eligible := make([]candidate, 0, len(ranked))
	for _, c := range ranked {
		if _, skip := excluded[c.externalID]; skip {
			continue
		}
		eligible = append(eligible, c)
	}

	var mu sync.Mutex
	materialized := make(map[int]*models.Movie, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, c := range eligible {
		g.Go(func() error {
			movie, err := s.ingestor.Materialize(gctx, c.externalID)
			if err != nil {
				slog.Warn("skipping candidate, ingestion failed", "external_id", c.externalID, "error", err)
				return nil
			}
			mu.Lock()
			materialized[c.externalID] = movie
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	picked := make([]models.Movie, 0, maxRecommendations)
	for _, c := range eligible {
		movie, ok := materialized[c.externalID]
		if !ok {
			continue
		}
		picked = append(picked, *movie)
		if len(picked) >= maxRecommendations {
			break
		}
	}
	return picked, nil
}

func splitNames(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
