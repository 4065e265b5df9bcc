package bookings

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
)

// CreateBooking - client requests a listing's service for a date and duration.
// The total is recomputed here from the listing's hourly rate; whatever the
// client displayed is ignored.
func CreateBooking(c echo.Context) error {
	clientID, ok := c.Get("user_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		ListingID   string    `json:"listing_id"`
		BookingDate time.Time `json:"booking_date"`
		Duration    int       `json:"duration"`
		Message     string    `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.ListingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing_id"})
	}
	if req.BookingDate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date is required"})
	}
	if req.BookingDate.Before(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be in the future"})
	}
	if req.Duration < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be at least 1 hour"})
	}

	ctx := context.Background()

	var providerID string
	var hourlyRate int64
	err := db.Conn.QueryRow(ctx,
		`SELECT user_id, hourly_rate FROM listings WHERE id = $1 AND status = 'active'`,
		req.ListingID,
	).Scan(&providerID, &hourlyRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found or inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch listing"})
	}

	if providerID == clientID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot book your own listing"})
	}

	bookingID := uuid.New().String()
	total := ComputeTotal(hourlyRate, req.Duration)
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO bookings (id, listing_id, client_id, provider_id, booking_date, duration, total_hours, total_amount, message, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', $10)`,
		bookingID, req.ListingID, clientID, providerID, req.BookingDate, req.Duration, req.Duration, total, req.Message, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	// Let the provider know a request is waiting (best-effort)
	ref := bookingID
	meta := "{}"
	_ = alerts.CreateNotification(providerID, "booking:requested", "New booking request", req.Message, &ref, &meta)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":   bookingID,
		"total_amount": total,
		"message":      "Booking requested. Awaiting provider response.",
	})
}
