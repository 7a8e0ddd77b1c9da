package models

import "time"

const (
	// ImageBaseW500 is the TMDB poster base used for stored movies.
	ImageBaseW500 = "https://image.tmdb.org/t/p/w500"
	// ImageBaseW185 is the smaller TMDB poster base used for catalog listings.
	ImageBaseW185 = "https://image.tmdb.org/t/p/w185"

	// MaxJoinedNamesLen caps the comma-joined genre and keyword columns.
	// Overflow is truncated silently, never rejected.
	MaxJoinedNamesLen = 255
)

// Movie represents a movie stored in our database, keyed by the external
// id assigned by TMDB.
type Movie struct {
	ID            int       `json:"-"`
	ExternalID    int       `json:"external_id"`
	Title         string    `json:"title"`
	PosterURL     string    `json:"poster_url"`
	Description   string    `json:"description"`
	Genre         string    `json:"genre"`
	Keyword       string    `json:"keyword"`
	Duration      int       `json:"duration"`
	Year          int       `json:"year"`
	AverageRating *float64  `json:"average_rating"`
	CreatedAt     time.Time `json:"-"`
}

// CatalogEntry is the listing shape built from TMDB summaries for the
// catalog and search endpoints. Entries are not persisted.
type CatalogEntry struct {
	ExternalID    int     `json:"external_id"`
	Title         string  `json:"title"`
	PosterURL     string  `json:"poster_url"`
	Genre         string  `json:"genre"`
	Year          int     `json:"year"`
	AverageRating float64 `json:"average_rating"`
}

// CatalogResponse groups the sectioned catalog listing.
type CatalogResponse struct {
	Popular  []CatalogEntry `json:"popular"`
	TopRated []CatalogEntry `json:"top_rated"`
	Action   []CatalogEntry `json:"action"`
	Comedy   []CatalogEntry `json:"comedy"`
	Drama    []CatalogEntry `json:"drama"`
}

// TasteProfile is the per-computation set of liked genre and keyword ids
// derived from a user's ratings. Never persisted.
type TasteProfile struct {
	GenreIDs   []int
	KeywordIDs []int
}

// Empty reports whether the profile carries no liked attribute at all.
func (p TasteProfile) Empty() bool {
	return len(p.GenreIDs) == 0 && len(p.KeywordIDs) == 0
}
