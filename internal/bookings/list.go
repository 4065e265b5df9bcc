package bookings

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// GetUserBookings - fetch all bookings for a user (as client or provider)
func GetUserBookings(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	query := `SELECT id, listing_id, client_id, provider_id, booking_date, duration, total_hours, total_amount,
	                 COALESCE(message, ''), status, rejection_reason, created_at, updated_at
	          FROM bookings WHERE (client_id = $1 OR provider_id = $1)`
	args := []any{uid}
	if status := c.QueryParam("status"); status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bookings"})
	}
	defer rows.Close()

	var results []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.ListingID, &b.ClientID, &b.ProviderID, &b.BookingDate, &b.Duration,
			&b.TotalHours, &b.TotalAmount, &b.Message, &b.Status, &b.RejectionReason, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		results = append(results, b)
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": results})
}
