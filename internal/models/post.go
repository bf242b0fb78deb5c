package models

import "time"

type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Image       string     `json:"image,omitempty"`
	Category    string     `json:"category"`
	IsPublished bool       `json:"is_published"`
	AuthorID    int64      `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations (loaded separately)
	AuthorName string `json:"author_name,omitempty"`
}

// OwnerID lets the ownership guard treat posts as authored content.
func (p *Post) OwnerID() int64 {
	return p.AuthorID
}

// Page is a static informational page addressed by slug (profil, visi-misi, ...).
type Page struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
