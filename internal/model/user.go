package model

import "time"

// DefaultUserName is used when a user registers without a name.
const DefaultUserName = "Anonymous"

// User represents a registered account
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view returned by GET /profile
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    string `json:"id"`
}
