package models

import "time"

type GalleryItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	AuthorID    int64     `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations (loaded separately)
	AuthorName string `json:"author_name,omitempty"`
}

func (g *GalleryItem) OwnerID() int64 {
	return g.AuthorID
}
