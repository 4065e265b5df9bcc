package community

import "time"

const (
	StatusVisible = "visible"
	StatusHidden  = "hidden"
	StatusRemoved = "removed"
)

type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Event struct {
	ID            string    `json:"id"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartsAt      time.Time `json:"starts_at"`
	Capacity      int       `json:"capacity"`
	Attendees     int       `json:"attendees"`
	Attending     bool      `json:"attending"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
