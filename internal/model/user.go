// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash is never serialized; handlers shape users via DTOs only.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the verified caller identity extracted from a bearer token.
// The auth middleware attaches it to the request context.
type Identity struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}
