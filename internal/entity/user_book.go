package entity

import "time"

// UserBook is one shelf row: a catalog book attached to a user with their
// personal reading state.
type UserBook struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ISBN          string    `json:"isbn"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Rating        float64   `json:"rating"`
	MyRating      float64   `json:"my_rating"`
	IsFavorite    bool      `json:"is_favorite"`
	ReadingStatus string    `json:"reading_status"`
	CreatedAt     time.Time `json:"created_at"`
}
