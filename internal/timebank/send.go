package timebank

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

// SendHours - offer hours to another user. The transfer stays pending,
// counted under the recipient's hours_pending, until they respond.
func SendHours(c echo.Context) error {
	senderID, ok := c.Get("user_id").(string)
	if !ok || senderID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		RecipientID string `json:"recipient_id"`
		Hours       int    `json:"hours"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := ValidateSend(senderID, req.RecipientID, req.Hours, req.Description); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := context.Background()

	// Recipient must exist and be active
	var recipientEmail string
	err := db.Conn.QueryRow(ctx,
		`SELECT email FROM users WHERE id = $1 AND COALESCE(is_active, TRUE)`, req.RecipientID,
	).Scan(&recipientEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch recipient"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	txID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO time_bank_transactions (id, sender_id, recipient_id, hours, description, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, 'pending', $6)`,
		txID, senderID, req.RecipientID, req.Hours, req.Description, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record transfer"})
	}

	_, err = tx.Exec(ctx,
		`UPDATE time_bank_balances SET hours_pending = hours_pending + $1, updated_at = NOW() WHERE user_id = $2`,
		req.Hours, req.RecipientID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update recipient balance"})
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	ref := txID
	meta := "{}"
	_ = alerts.CreateNotification(req.RecipientID, "timebank:received", "You received hours", req.Description, &ref, &meta)
	if recipientEmail != "" {
		_ = alerts.EnqueueHoursReceived(txID, senderID, req.RecipientID, recipientEmail, req.Hours)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"transaction_id": txID,
		"status":         StatusPending,
		"message":        "Hours sent. Awaiting recipient approval.",
	})
}
