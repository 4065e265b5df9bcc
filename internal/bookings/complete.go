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

// CompleteBooking - either participant marks a confirmed booking done.
// Completion awards the booked hours through the time bank: an approved
// transaction from client to provider is recorded and both balances are
// updated, all inside one database transaction with the status flip.
func CompleteBooking(c echo.Context) error {
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
	if err := Authorize(b, uid, StatusCompleted); err != nil {
		return authErrResponse(c, err)
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		`UPDATE bookings SET status = 'completed', updated_at = NOW() WHERE id = $1 AND status = 'confirmed'`,
		bookingID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking status"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking not active"})
	}

	// Ledger entry for the hour award; pre-approved since both sides agreed
	// to the booking terms at confirmation time.
	ref := bookingID
	_, err = tx.Exec(ctx,
		`INSERT INTO time_bank_transactions (id, sender_id, recipient_id, hours, description, status, reference, created_at, resolved_at)
		 VALUES ($1, $2, $3, $4, $5, 'approved', $6, $7, $7)`,
		uuid.New().String(), b.ClientID, b.ProviderID, b.TotalHours, "Booking completed", ref, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record hour transfer"})
	}

	_, err = tx.Exec(ctx,
		`UPDATE time_bank_balances SET hours_earned = hours_earned + $1, updated_at = NOW() WHERE user_id = $2`,
		b.TotalHours, b.ProviderID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to credit provider hours"})
	}

	_, err = tx.Exec(ctx,
		`UPDATE time_bank_balances SET hours_spent = hours_spent + $1, updated_at = NOW() WHERE user_id = $2`,
		b.TotalHours, b.ClientID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to debit client hours"})
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Notify the counterparty (best-effort)
	other := b.ProviderID
	if uid == b.ProviderID {
		other = b.ClientID
	}
	meta := "{}"
	_ = alerts.CreateNotification(other, "booking:completed", "Booking completed", "", &ref, &meta)
	var providerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, b.ProviderID).Scan(&providerEmail)
	if providerEmail != "" {
		_ = alerts.EnqueueBookingCompleted(bookingID, b.ClientID, b.ProviderID, providerEmail, b.TotalHours)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Booking completed"})
}
