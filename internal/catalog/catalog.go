package catalog

import (
	"time"
)

// Book is a catalog row. ISBN is the natural identity: two resolutions of
// the same ISBN must converge to the same row.
type Book struct {
	ISBN          string    `json:"isbn"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Rating        float64   `json:"rating"`
	PublishedYear int       `json:"published_year"`
	PageCount     int       `json:"page_count"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	GenreIDs      []int     `json:"genre_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Playlist is a catalog row keyed by the provider's playlist id.
type Playlist struct {
	SpotifyID   string    `json:"spotify_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	URI         string    `json:"uri"`
	CreatedAt   time.Time `json:"created_at"`
}
