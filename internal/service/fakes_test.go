package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/lib/pq"

	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/tmdb"
)

// uniqueViolation mimics the error PostgreSQL raises on a duplicate key.
func uniqueViolation() error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// fakeCatalog is an in-memory stand-in for the TMDB client.
type fakeCatalog struct {
	mu sync.Mutex

	details  map[int]*tmdb.MovieDetail
	keywords map[int][]tmdb.Keyword

	genreResults   []tmdb.MovieSummary
	keywordResults []tmdb.MovieSummary
	titleResults   []tmdb.MovieSummary
	people         []tmdb.Person
	credits        []tmdb.Credit
	popular        []tmdb.MovieSummary
	topRated       []tmdb.MovieSummary

	genreErr    error
	keywordErr  error
	popularErr  error
	topRatedErr error

	fetchCalls         int
	genreDiscoverCalls int
	genreDiscoverIDs   []int
	keywordDiscoverIDs []int
}

func (f *fakeCatalog) FetchByID(_ context.Context, externalID int) (*tmdb.MovieDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	detail, ok := f.details[externalID]
	if !ok {
		return nil, fmt.Errorf("no detail configured for %d", externalID)
	}
	return detail, nil
}

func (f *fakeCatalog) FetchKeywords(_ context.Context, externalID int) ([]tmdb.Keyword, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keywords[externalID], nil
}

func (f *fakeCatalog) DiscoverByGenres(_ context.Context, genreIDs []int, _ int) ([]tmdb.MovieSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genreDiscoverCalls++
	f.genreDiscoverIDs = genreIDs
	if f.genreErr != nil {
		return nil, f.genreErr
	}
	return f.genreResults, nil
}

func (f *fakeCatalog) DiscoverByKeywords(_ context.Context, keywordIDs []int, _ int) ([]tmdb.MovieSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywordDiscoverIDs = keywordIDs
	if f.keywordErr != nil {
		return nil, f.keywordErr
	}
	return f.keywordResults, nil
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, _ string, _ int) ([]tmdb.MovieSummary, error) {
	return f.titleResults, nil
}

func (f *fakeCatalog) SearchPerson(_ context.Context, _ string) ([]tmdb.Person, error) {
	return f.people, nil
}

func (f *fakeCatalog) PersonCredits(_ context.Context, _ int) ([]tmdb.Credit, error) {
	return f.credits, nil
}

func (f *fakeCatalog) Popular(_ context.Context, _ int) ([]tmdb.MovieSummary, error) {
	if f.popularErr != nil {
		return nil, f.popularErr
	}
	return f.popular, nil
}

func (f *fakeCatalog) TopRated(_ context.Context, _ int) ([]tmdb.MovieSummary, error) {
	if f.topRatedErr != nil {
		return nil, f.topRatedErr
	}
	return f.topRated, nil
}

// fakeMovieStore mimics the movies table, including the unique violation a
// second insert of the same external id raises.
type fakeMovieStore struct {
	mu         sync.Mutex
	byExternal map[int]*models.Movie
	nextID     int

	getCalls    int
	insertCalls int
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{byExternal: make(map[int]*models.Movie), nextID: 1}
}

func (f *fakeMovieStore) GetByExternalID(externalID int) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	m, ok := f.byExternal[externalID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMovieStore) Insert(m *models.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if _, exists := f.byExternal[m.ExternalID]; exists {
		return uniqueViolation()
	}
	m.ID = f.nextID
	f.nextID++
	copied := *m
	f.byExternal[m.ExternalID] = &copied
	return nil
}

// fakeMaterializer synthesizes movies without a provider round trip. The
// internal id is external id + 1000 so tests can tell them apart.
type fakeMaterializer struct {
	mu      sync.Mutex
	failIDs map[int]bool
	calls   []int
}

func (f *fakeMaterializer) Materialize(_ context.Context, externalID int) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, externalID)
	if f.failIDs[externalID] {
		return nil, fmt.Errorf("ingestion failed for %d", externalID)
	}
	return &models.Movie{
		ID:         externalID + 1000,
		ExternalID: externalID,
		Title:      fmt.Sprintf("Movie %d", externalID),
	}, nil
}

// fakeRatings implements both the CRUD store and the taste store.
type fakeRatings struct {
	mu          sync.Mutex
	byID        map[int]*models.Rating
	byUserMovie map[[2]int]int
	nextID      int

	ratedMovies []models.RatedMovie
	ratedIDs    []int
	listed      []models.RatingWithMovie
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{
		byID:        make(map[int]*models.Rating),
		byUserMovie: make(map[[2]int]int),
		nextID:      1,
	}
}

func (f *fakeRatings) Create(userID, movieID, score int, comment string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int{userID, movieID}
	if _, exists := f.byUserMovie[key]; exists {
		return nil, uniqueViolation()
	}
	r := &models.Rating{ID: f.nextID, UserID: userID, MovieID: movieID, Score: score, Comment: comment}
	f.nextID++
	f.byID[r.ID] = r
	f.byUserMovie[key] = r.ID
	copied := *r
	return &copied, nil
}

func (f *fakeRatings) GetByID(id int) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRatings) Update(id, score int, comment string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Score = score
	r.Comment = comment
	return nil
}

func (f *fakeRatings) Delete(id int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeRatings) ListByUser(_ int) ([]models.RatingWithMovie, error) {
	return f.listed, nil
}

func (f *fakeRatings) ListRatedMovies(_ int) ([]models.RatedMovie, error) {
	return f.ratedMovies, nil
}

func (f *fakeRatings) RatedExternalIDs(_ int) ([]int, error) {
	return f.ratedIDs, nil
}

// fakeProfiles implements the profile store and the recommendation store.
type fakeProfiles struct {
	mu      sync.Mutex
	profile models.UserProfile

	watched   map[int]bool
	watchList map[int]bool

	watchedExternal   []int
	watchListExternal []int

	recommended  []models.Movie
	replacedWith []int
	replaceCalls int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profile:   models.UserProfile{ID: 7, UserID: 1},
		watched:   make(map[int]bool),
		watchList: make(map[int]bool),
	}
}

func (f *fakeProfiles) GetOrCreateByUserID(userID int) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profile
	p.UserID = userID
	return &p, nil
}

func (f *fakeProfiles) AddWatched(_, movieID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watched[movieID] {
		return uniqueViolation()
	}
	f.watched[movieID] = true
	delete(f.watchList, movieID)
	return nil
}

func (f *fakeProfiles) RemoveWatched(_, movieID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.watched[movieID] {
		return 0, nil
	}
	delete(f.watched, movieID)
	return 1, nil
}

func (f *fakeProfiles) AddToWatchList(_, movieID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchList[movieID] {
		return uniqueViolation()
	}
	f.watchList[movieID] = true
	return nil
}

func (f *fakeProfiles) RemoveFromWatchList(_, movieID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.watchList[movieID] {
		return 0, nil
	}
	delete(f.watchList, movieID)
	return 1, nil
}

func (f *fakeProfiles) ListWatched(_ int) ([]models.Movie, error) {
	return nil, nil
}

func (f *fakeProfiles) ListWatchList(_ int) ([]models.Movie, error) {
	return nil, nil
}

func (f *fakeProfiles) WatchedExternalIDs(_ int) ([]int, error) {
	return f.watchedExternal, nil
}

func (f *fakeProfiles) WatchListExternalIDs(_ int) ([]int, error) {
	return f.watchListExternal, nil
}

func (f *fakeProfiles) GetRecommended(_ int) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recommended, nil
}

func (f *fakeProfiles) ReplaceRecommended(_ int, movieIDs []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	f.replacedWith = movieIDs
	return nil
}

// fakeUsers mimics the users table with its unique username/email columns.
type fakeUsers struct {
	mu         sync.Mutex
	byUsername map[string]*models.User
	byID       map[int]*models.User
	nextID     int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byUsername: make(map[string]*models.User),
		byID:       make(map[int]*models.User),
		nextID:     1,
	}
}

func (f *fakeUsers) Create(username, email, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byUsername[username]; exists {
		return nil, uniqueViolation()
	}
	u := &models.User{ID: f.nextID, Username: username, Email: email, PasswordHash: passwordHash}
	f.nextID++
	f.byUsername[username] = u
	f.byID[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byUsername[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByID(id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}
