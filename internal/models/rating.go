package models

import "time"

// Rating is one user's score for one movie. At most one per (user, movie).
type Rating struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	MovieID   int       `json:"-"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingWithMovie is a rating joined with its movie for listing responses.
type RatingWithMovie struct {
	Rating
	Movie Movie `json:"movie"`
}

// RatedMovie pairs the stored genre/keyword strings of a rated movie with
// its score; input to taste profile derivation.
type RatedMovie struct {
	Score   int
	Genre   string
	Keyword string
}

// AddRatingRequest is the request body for creating a rating.
type AddRatingRequest struct {
	ExternalID int    `json:"external_id"`
	Score      int    `json:"score"`
	Comment    string `json:"comment"`
}

// UpdateRatingRequest is the request body for updating a rating.
type UpdateRatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}
