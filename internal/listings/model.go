package listings

import "time"

// Listing is a marketplace entry offering or requesting a skill at an hourly rate.
type Listing struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Kind        string    `json:"kind"`
	HourlyRate  int64     `json:"hourly_rate"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListingSummary adds the owner's aggregated review rating for discovery responses.
type ListingSummary struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	OwnerName   string    `json:"owner_name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Kind        string    `json:"kind"`
	HourlyRate  int64     `json:"hourly_rate"`
	AvgRating   float64   `json:"avg_rating"`
	CreatedAt   time.Time `json:"created_at"`
}
