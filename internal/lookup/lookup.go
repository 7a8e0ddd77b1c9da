// Package lookup maintains the reverse id<->name index for TMDB genres and
// keywords. The index is constructed once at startup, seeded with the static
// genre table, and grows as movies are ingested. Concurrent writers may race
// to record the same id with the same name; last-write-wins is safe because
// the value is deterministic per id.
package lookup

import (
	"strings"
	"sync"
)

// TMDB's static movie genre table. Keywords have no static table and are
// learned entirely from ingested movies.
var defaultGenres = map[int]string{
	28: "Action", 12: "Adventure", 16: "Animation", 35: "Comedy",
	80: "Crime", 99: "Documentary", 18: "Drama", 10751: "Family",
	14: "Fantasy", 36: "History", 27: "Horror", 10402: "Music",
	9648: "Mystery", 10749: "Romance", 878: "Science Fiction",
	10770: "TV Movie", 53: "Thriller", 10752: "War", 37: "Western",
}

// Index is a concurrent-safe id<->name index for genres and keywords.
type Index struct {
	mu           sync.RWMutex
	genreNames   map[int]string
	genreIDs     map[string]int
	keywordNames map[int]string
	keywordIDs   map[string]int
}

// NewIndex creates an Index seeded with the static genre table.
func NewIndex() *Index {
	idx := &Index{
		genreNames:   make(map[int]string, len(defaultGenres)),
		genreIDs:     make(map[string]int, len(defaultGenres)),
		keywordNames: make(map[int]string),
		keywordIDs:   make(map[string]int),
	}
	for id, name := range defaultGenres {
		idx.genreNames[id] = name
		idx.genreIDs[strings.ToLower(name)] = id
	}
	return idx
}

// RecordGenre stores a genre id/name pair observed during ingestion.
func (idx *Index) RecordGenre(id int, name string) {
	if name == "" {
		return
	}
	idx.mu.Lock()
	idx.genreNames[id] = name
	idx.genreIDs[strings.ToLower(name)] = id
	idx.mu.Unlock()
}

// RecordKeyword stores a keyword id/name pair observed during ingestion.
func (idx *Index) RecordKeyword(id int, name string) {
	if name == "" {
		return
	}
	idx.mu.Lock()
	idx.keywordNames[id] = name
	idx.keywordIDs[strings.ToLower(name)] = id
	idx.mu.Unlock()
}

// GenreIDByName returns the TMDB genre id for a name, case-insensitive.
func (idx *Index) GenreIDByName(name string) (int, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	id, ok := idx.genreIDs[strings.ToLower(name)]
	return id, ok
}

// KeywordIDByName returns the TMDB keyword id for a name, case-insensitive.
func (idx *Index) KeywordIDByName(name string) (int, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	id, ok := idx.keywordIDs[strings.ToLower(name)]
	return id, ok
}

// GenreNameByID returns the genre name for a TMDB genre id.
func (idx *Index) GenreNameByID(id int) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	name, ok := idx.genreNames[id]
	return name, ok
}

// KeywordNameByID returns the keyword name for a TMDB keyword id.
func (idx *Index) KeywordNameByID(id int) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	name, ok := idx.keywordNames[id]
	return name, ok
}
