package model

import "time"

// Todo represents a single todo item.
// Every todo belongs to exactly one owner; repository queries filter on
// OwnerID so rows of other users are never visible to a caller.
type Todo struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
