package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinresplandy/filmhub-project/internal/lookup"
	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/tmdb"
)

type recommendFixture struct {
	svc      *RecommendationService
	ratings  *fakeRatings
	profiles *fakeProfiles
	catalog  *fakeCatalog
	ingestor *fakeMaterializer
	names    *lookup.Index
}

func newRecommendFixture() *recommendFixture {
	ratings := newFakeRatings()
	profiles := newFakeProfiles()
	catalog := &fakeCatalog{}
	ingestor := &fakeMaterializer{}
	names := lookup.NewIndex()
	return &recommendFixture{
		svc:      NewRecommendationService(ratings, profiles, ingestor, catalog, names),
		ratings:  ratings,
		profiles: profiles,
		catalog:  catalog,
		ingestor: ingestor,
		names:    names,
	}
}

func summaries(ids ...int) []tmdb.MovieSummary {
	out := make([]tmdb.MovieSummary, len(ids))
	for i, id := range ids {
		out[i] = tmdb.MovieSummary{ID: id, Title: fmt.Sprintf("Movie %d", id)}
	}
	return out
}

func externalIDs(movies []models.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ExternalID
	}
	return out
}

func TestRefreshScoresAndRanksCandidates(t *testing.T) {
	f := newRecommendFixture()
	f.names.RecordKeyword(9882, "space")

	// One liked sci-fi movie drives both discover branches.
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Science Fiction", Keyword: "space"},
	}
	f.ratings.ratedIDs = []int{1111111}

	// 2222222 surfaces in both branches and accumulates both weights.
	f.catalog.genreResults = summaries(2222222, 3333333, 1111111)
	f.catalog.keywordResults = summaries(2222222)

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{2222222, 3333333}, externalIDs(movies), "rated movie must be excluded, double-scored movie first")
	assert.Equal(t, 1, f.profiles.replaceCalls)
	assert.Equal(t, []int{2222222 + 1000, 3333333 + 1000}, f.profiles.replacedWith)

	// The discover branches receive the liked attribute ids.
	assert.Equal(t, []int{878}, f.catalog.genreDiscoverIDs)
	assert.Equal(t, []int{9882}, f.catalog.keywordDiscoverIDs)
}

func TestRefreshEmptyTasteClearsSet(t *testing.T) {
	f := newRecommendFixture()
	// All ratings below the liked threshold.
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 1, Genre: "Drama", Keyword: "war"},
		{Score: 2, Genre: "Comedy", Keyword: ""},
	}
	f.profiles.recommended = []models.Movie{{ID: 99}}

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, movies)
	assert.Equal(t, 1, f.profiles.replaceCalls)
	assert.Nil(t, f.profiles.replacedWith)
	assert.Zero(t, f.catalog.genreDiscoverCalls, "empty taste must not hit the provider")
}

func TestRefreshThresholdBoundary(t *testing.T) {
	f := newRecommendFixture()
	// Score exactly at the threshold counts as liked.
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 3, Genre: "Horror", Keyword: ""},
	}
	f.catalog.genreResults = summaries(42)

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{42}, externalIDs(movies))
	assert.Equal(t, []int{27}, f.catalog.genreDiscoverIDs)
}

func TestRefreshKeepsOldSetWhenBothBranchesFail(t *testing.T) {
	f := newRecommendFixture()
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Action", Keyword: ""},
	}
	f.catalog.genreErr = fmt.Errorf("provider down")
	old := []models.Movie{{ID: 12, ExternalID: 4444}}
	f.profiles.recommended = old

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, old, movies, "a provider outage must not wipe the set")
	assert.Zero(t, f.profiles.replaceCalls)
}

func TestRefreshOneBranchFailureDegrades(t *testing.T) {
	f := newRecommendFixture()
	f.names.RecordKeyword(9882, "space")
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 4, Genre: "Action", Keyword: "space"},
	}
	f.catalog.genreErr = fmt.Errorf("provider down")
	f.catalog.keywordResults = summaries(5555)

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{5555}, externalIDs(movies))
	assert.Equal(t, 1, f.profiles.replaceCalls)
}

func TestRefreshExcludesWatchedAndListed(t *testing.T) {
	f := newRecommendFixture()
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Drama", Keyword: ""},
	}
	f.catalog.genreResults = summaries(10, 20, 30, 40)
	f.profiles.watchedExternal = []int{10}
	f.profiles.watchListExternal = []int{30}

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40}, externalIDs(movies))
}

func TestRefreshCapsAtTwenty(t *testing.T) {
	f := newRecommendFixture()
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Comedy", Keyword: ""},
	}
	ids := make([]int, 30)
	for i := range ids {
		ids[i] = i + 1
	}
	f.catalog.genreResults = summaries(ids...)

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, movies, maxRecommendations)
	assert.Len(t, f.profiles.replacedWith, maxRecommendations)
}

func TestRefreshTieBreaksOnAscendingID(t *testing.T) {
	f := newRecommendFixture()
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Western", Keyword: ""},
	}
	// Same score for every candidate, deliberately unordered.
	f.catalog.genreResults = summaries(300, 100, 200)

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 200, 300}, externalIDs(movies))
}

func TestRefreshSkipsFailedIngestion(t *testing.T) {
	f := newRecommendFixture()
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Drama", Keyword: ""},
	}
	f.catalog.genreResults = summaries(1, 2, 3)
	f.ingestor.failIDs = map[int]bool{2: true}

	movies, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, externalIDs(movies))
}

func TestBuildTasteProfileDropsUnknownNames(t *testing.T) {
	f := newRecommendFixture()
	f.ratings.ratedMovies = []models.RatedMovie{
		{Score: 5, Genre: "Drama, No Such Genre", Keyword: "unseen keyword"},
	}

	taste, err := f.svc.buildTasteProfile(1)
	require.NoError(t, err)

	assert.Equal(t, []int{18}, taste.GenreIDs)
	assert.Empty(t, taste.KeywordIDs)
}

func TestGetRecommendedNeverRefreshes(t *testing.T) {
	f := newRecommendFixture()
	f.profiles.recommended = []models.Movie{{ID: 1, ExternalID: 777}}

	movies, err := f.svc.GetRecommended(1)
	require.NoError(t, err)

	assert.Equal(t, []int{777}, externalIDs(movies))
	assert.Zero(t, f.catalog.genreDiscoverCalls)
	assert.Zero(t, f.profiles.replaceCalls)
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"Drama", "Thriller"}, splitNames("Drama, Thriller"))
	assert.Equal(t, []string{"solo"}, splitNames("solo"))
	assert.Nil(t, splitNames(""))
	assert.Equal(t, []string{"a", "b"}, splitNames("a, , b"))
}
