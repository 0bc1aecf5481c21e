package models

import "time"

// User represents a registered account. Users are created on signup or on
// first Google sign-in and are never deleted in-app.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}
