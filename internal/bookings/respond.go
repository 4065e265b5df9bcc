package bookings

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
)

func fetchBooking(ctx context.Context, bookingID string) (*Booking, error) {
	var b Booking
	err := db.Conn.QueryRow(ctx,
		`SELECT id, listing_id, client_id, provider_id, booking_date, duration, total_hours, total_amount,
		        COALESCE(message, ''), status, rejection_reason, created_at, updated_at
		 FROM bookings WHERE id = $1`, bookingID,
	).Scan(&b.ID, &b.ListingID, &b.ClientID, &b.ProviderID, &b.BookingDate, &b.Duration, &b.TotalHours,
		&b.TotalAmount, &b.Message, &b.Status, &b.RejectionReason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func authErrResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotParticipant):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, ErrProviderOnly), errors.Is(err, ErrClientOnly):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
}

// ConfirmBooking - provider accepts a pending booking
func ConfirmBooking(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id in URL"})
	}

	ctx := context.Background()
	b, err := fetchBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if err := Authorize(b, uid, StatusConfirmed); err != nil {
		return authErrResponse(c, err)
	}

	// Status guard repeated in SQL so racing tabs cannot double-apply
	ct, err := db.Conn.Exec(ctx,
		`UPDATE bookings SET status = 'confirmed', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		bookingID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking status"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already handled"})
	}

	ref := bookingID
	meta := "{}"
	_ = alerts.CreateNotification(b.ClientID, "booking:confirmed", "Your booking was confirmed", "", &ref, &meta)
	var clientEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, b.ClientID).Scan(&clientEmail)
	if clientEmail != "" {
		_ = alerts.EnqueueBookingConfirmed(bookingID, b.ClientID, b.ProviderID, clientEmail, b.TotalHours)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking confirmed"})
}

// RejectBooking - provider declines a pending booking with a reason
func RejectBooking(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id in URL"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := context.Background()
	b, err := fetchBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if err := Authorize(b, uid, StatusRejected); err != nil {
		return authErrResponse(c, err)
	}

	ct, err := db.Conn.Exec(ctx,
		`UPDATE bookings SET status = 'rejected', rejection_reason = $1, updated_at = NOW()
		 WHERE id = $2 AND status = 'pending'`,
		req.Reason, bookingID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking status"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already handled"})
	}

	ref := bookingID
	meta := "{}"
	_ = alerts.CreateNotification(b.ClientID, "booking:rejected", "Your booking was declined", req.Reason, &ref, &meta)
	var clientEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, b.ClientID).Scan(&clientEmail)
	if clientEmail != "" {
		_ = alerts.EnqueueBookingRejected(bookingID, b.ClientID, b.ProviderID, clientEmail, req.Reason)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking rejected"})
}

// CancelBooking - client withdraws a pending or confirmed booking
func CancelBooking(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id in URL"})
	}

	ctx := context.Background()
	b, err := fetchBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if err := Authorize(b, uid, StatusCancelled); err != nil {
		return authErrResponse(c, err)
	}

	ct, err := db.Conn.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND status IN ('pending','confirmed')`,
		bookingID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking status"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled at this stage"})
	}

	ref := bookingID
	meta := "{}"
	_ = alerts.CreateNotification(b.ProviderID, "booking:cancelled", "A booking was cancelled", "", &ref, &meta)
	var providerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, b.ProviderID).Scan(&providerEmail)
	if providerEmail != "" {
		_ = alerts.EnqueueBookingCancelled(bookingID, b.ClientID, b.ProviderID, providerEmail)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled"})
}
