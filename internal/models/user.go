package models

import "time"

// User is a registered account. It doubles as the public view: the hash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // don’t expose hash
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
