// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash is excluded from JSON so it can never leak through a response.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthContext carries the resolved identity of an authenticated request.
type AuthContext struct {
	UserID string
	Email  string
}
