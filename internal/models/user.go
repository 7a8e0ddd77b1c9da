package models

import "time"

// User represents a registered user.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile owns the per-user movie sets (watched, watch list,
// recommended). One per user, created lazily.
type UserProfile struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token after register/login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// WatchRequest is the request body for watch list / watched additions.
type WatchRequest struct {
	ExternalID int `json:"external_id"`
}
