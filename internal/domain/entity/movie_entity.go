package entity

import "time"

// Movie is a catalog entry. AgeRating is the minimum viewer age
// (7, 13, 16 or 18).
type Movie struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Duration    int       `json:"duration"`
	AgeRating   int       `json:"age_rating"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}
