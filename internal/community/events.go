package community

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"` // RFC3339
	Capacity    int    `json:"capacity"`
}

// CreateEvent publishes a community event organized by the caller
func CreateEvent(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	if !startsAt.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}
	if req.Capacity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity cannot be negative"})
	}

	eventID := uuid.New().String()
	_, err = db.Conn.Exec(context.Background(),
		`INSERT INTO events (id, organizer_id, title, description, location, starts_at, capacity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		eventID, userID, req.Title, req.Description, req.Location, startsAt, req.Capacity,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": eventID, "message": "event created"})
}

// ListUpcomingEvents returns visible events that have not started yet,
// soonest first, with attendance counts.
func ListUpcomingEvents(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)

	rows, err := db.Conn.Query(context.Background(),
		`SELECT e.id::text, e.organizer_id::text, u.name, e.title, e.description, e.location,
                e.starts_at, e.capacity, e.status, e.created_at,
                (SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendees,
                EXISTS(SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $1::uuid) AS attending
         FROM events e
         JOIN users u ON u.id = e.organizer_id
         WHERE e.status = 'visible' AND e.starts_at > NOW()
         ORDER BY e.starts_at ASC
         LIMIT 100`, nullableUUID(userID),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.OrganizerID, &e.OrganizerName, &e.Title, &e.Description, &e.Location,
			&e.StartsAt, &e.Capacity, &e.Status, &e.CreatedAt, &e.Attendees, &e.Attending); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse event"})
		}
		events = append(events, e)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// AttendEvent registers the caller as an attendee, respecting capacity
func AttendEvent(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := c.Param("id")
	if _, err := uuid.Parse(eventID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var capacity, attendees int
	var startsAt time.Time
	err = tx.QueryRow(ctx,
		`SELECT capacity, starts_at,
                (SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id)
         FROM events e WHERE id = $1 AND status = 'visible' FOR UPDATE`, eventID,
	).Scan(&capacity, &startsAt, &attendees)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	if !startsAt.After(time.Now()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "event already started"})
	}
	if capacity > 0 && attendees >= capacity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is full"})
	}

	res, err := tx.Exec(ctx,
		`INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		eventID, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already attending"})
	}
	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "attending"})
}

// UnattendEvent removes the caller from the attendee list
func UnattendEvent(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := c.Param("id")
	if _, err := uuid.Parse(eventID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	res, err := db.Conn.Exec(context.Background(),
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, eventID, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unregister"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not attending"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "no longer attending"})
}

// nullableUUID lets the attending check bind NULL for anonymous callers
func nullableUUID(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
