// Package tmdb wraps the TMDB HTTP API. Provider failures are normalized
// into the status taxonomy: timeouts and transport errors are Transient,
// 404 on a single-item fetch is NotFound, any other non-2xx is ProviderError.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/martinresplandy/filmhub-project/internal/status"
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ---- TMDB Response Types ----

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword is a keyword from TMDB.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the detailed per-movie record.
type MovieDetail struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	Genres      []Genre `json:"genres"`
}

// MovieSummary is a movie from a listing endpoint. Listings carry genre ids
// and a vote average instead of full genre objects.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

// Person is a person from the search endpoint.
type Person struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Popularity float64 `json:"popularity"`
}

// Credit is one crew entry from a person's movie credits. It carries the
// same listing fields as MovieSummary plus the job role.
type Credit struct {
	MovieSummary
	Job string `json:"job"`
}

type listingResponse struct {
	Page    int            `json:"page"`
	Results []MovieSummary `json:"results"`
}

type keywordsResponse struct {
	Keywords []Keyword `json:"keywords"`
}

type personSearchResponse struct {
	Results []Person `json:"results"`
}

type creditsResponse struct {
	Crew []Credit `json:"crew"`
}

// ---- Client Methods ----

// FetchByID fetches the detailed record for one movie.
func (c *Client) FetchByID(ctx context.Context, externalID int) (*MovieDetail, error) {
	slog.Debug("fetching TMDB movie detail", "external_id", externalID)

	var detail MovieDetail
	path := fmt.Sprintf("/movie/%d", externalID)
	if err := c.get(ctx, path, nil, true, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchKeywords fetches the keyword list for one movie.
func (c *Client) FetchKeywords(ctx context.Context, externalID int) ([]Keyword, error) {
	slog.Debug("fetching TMDB movie keywords", "external_id", externalID)

	var resp keywordsResponse
	path := fmt.Sprintf("/movie/%d/keywords", externalID)
	if err := c.get(ctx, path, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Keywords, nil
}

// DiscoverByGenres fetches a popularity-sorted page of movies matching any
// of the given genre ids.
func (c *Client) DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]MovieSummary, error) {
	return c.discover(ctx, "with_genres", genreIDs, page)
}

// DiscoverByKeywords fetches a popularity-sorted page of movies matching any
// of the given keyword ids.
func (c *Client) DiscoverByKeywords(ctx context.Context, keywordIDs []int, page int) ([]MovieSummary, error) {
	return c.discover(ctx, "with_keywords", keywordIDs, page)
}

func (c *Client) discover(ctx context.Context, filter string, ids []int, page int) ([]MovieSummary, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	params := url.Values{
		// "|" means OR: a movie matching any of the ids is returned.
		filter:    {strings.Join(parts, "|")},
		"sort_by": {"popularity.desc"},
		"page":    {strconv.Itoa(page)},
	}

	slog.Debug("fetching TMDB discover", "filter", filter, "ids", len(ids), "page", page)

	var resp listingResponse
	if err := c.get(ctx, "/discover/movie", params, false, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SearchByTitle searches movies by title.
func (c *Client) SearchByTitle(ctx context.Context, query string, page int) ([]MovieSummary, error) {
	params := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}

	var resp listingResponse
	if err := c.get(ctx, "/search/movie", params, false, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SearchPerson searches people by name.
func (c *Client) SearchPerson(ctx context.Context, name string) ([]Person, error) {
	params := url.Values{
		"query": {name},
		"page":  {"1"},
	}

	var resp personSearchResponse
	if err := c.get(ctx, "/search/person", params, false, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// PersonCredits fetches the movie crew credits of a person.
func (c *Client) PersonCredits(ctx context.Context, personID int) ([]Credit, error) {
	var resp creditsResponse
	path := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := c.get(ctx, path, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Crew, nil
}

// Popular fetches a page of the popular listing.
func (c *Client) Popular(ctx context.Context, page int) ([]MovieSummary, error) {
	return c.listing(ctx, "/movie/popular", page)
}

// TopRated fetches a page of the top-rated listing.
func (c *Client) TopRated(ctx context.Context, page int) ([]MovieSummary, error) {
	return c.listing(ctx, "/movie/top_rated", page)
}

func (c *Client) listing(ctx context.Context, path string, page int) ([]MovieSummary, error) {
	params := url.Values{"page": {strconv.Itoa(page)}}

	var resp listingResponse
	if err := c.get(ctx, path, params, false, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// get performs one provider call and decodes the JSON body into out.
// singleItem controls whether a 404 maps to NotFound (single-item fetch)
// or to ProviderError (listings).
func (c *Client) get(ctx context.Context, path string, params url.Values, singleItem bool, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return status.Wrap(status.Failure, "build TMDB request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return status.Wrap(status.Transient, "TMDB request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && singleItem {
		return status.Errorf(status.NotFound, "TMDB has no record for %s", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return status.Errorf(status.ProviderError, "TMDB returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return status.Wrap(status.ProviderError, "decode TMDB response", err)
	}
	return nil
}
