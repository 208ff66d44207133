package bookmark

import (
	"errors"
	"time"
)

// Bookmark represents a saved link owned by a single user.
type Bookmark struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sentinel errors for bookmark operations.
var (
	ErrNotFound = errors.New("bookmark not found")
	ErrNotOwner = errors.New("not the bookmark owner")
)
