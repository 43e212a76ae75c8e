package model

import "time"

// Catalog status values shared by games, products, offers and packs.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Game is a top-up title listed in the storefront.  Slug is the unique URL
// key used by the public catalog; Status gates customer visibility.
type Game struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Category     *string   `json:"category"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
