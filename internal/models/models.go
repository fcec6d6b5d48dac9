package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Movie is a catalog entry shared across collections. The UUID is the stable
// externally visible identifier and never changes once assigned; the row id
// stays internal to the store. Genres is a single comma-separated string, not
// a normalized set.
type Movie struct {
	RowID       int64     `json:"-"`
	UUID        uuid.UUID `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      string    `json:"genres"`
}

// Collection is a named, user-owned group of movie references. Ownership is
// permanent; there is no transfer operation.
type Collection struct {
	RowID       int64     `json:"-"`
	UUID        uuid.UUID `json:"uuid"`
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Movies      []Movie   `json:"movies"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
