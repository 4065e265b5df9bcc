package timebank

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
)

// ApproveTransaction - recipient accepts a pending transfer
func ApproveTransaction(c echo.Context) error {
	return resolveTransaction(c, StatusApproved)
}

// RejectTransaction - recipient declines a pending transfer
func RejectTransaction(c echo.Context) error {
	return resolveTransaction(c, StatusRejected)
}

// resolveTransaction flips the status and folds the hours into both
// balances in one database transaction. The WHERE status='pending' guard
// makes resolution single-shot: a second tab, a replayed request or an
// already-approved transaction all land on rows_affected == 0.
func resolveTransaction(c echo.Context, decision string) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	txnID := c.Param("id")
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing transaction id in URL"})
	}

	ctx := context.Background()

	var senderID, recipientID, status string
	var hours int
	err := db.Conn.QueryRow(ctx,
		`SELECT sender_id, recipient_id, hours, status FROM time_bank_transactions WHERE id = $1`,
		txnID,
	).Scan(&senderID, &recipientID, &hours, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch transaction"})
	}

	if uid != recipientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": ErrNotRecipient.Error()})
	}
	if status != StatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": ErrNotPending.Error()})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		`UPDATE time_bank_transactions SET status = $1, resolved_at = NOW() WHERE id = $2 AND status = 'pending'`,
		decision, txnID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update transaction"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": ErrNotPending.Error()})
	}

	// Lock the recipient balance row before adjusting; the sender row is
	// only touched on approval.
	var pending int
	err = tx.QueryRow(ctx,
		`SELECT hours_pending FROM time_bank_balances WHERE user_id = $1 FOR UPDATE`, recipientID,
	).Scan(&pending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recipient balance not found"})
	}

	if decision == StatusApproved {
		_, err = tx.Exec(ctx,
			`UPDATE time_bank_balances
			 SET hours_pending = hours_pending - $1, hours_earned = hours_earned + $1, updated_at = NOW()
			 WHERE user_id = $2`,
			hours, recipientID,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update recipient balance"})
		}
		_, err = tx.Exec(ctx,
			`UPDATE time_bank_balances SET hours_spent = hours_spent + $1, updated_at = NOW() WHERE user_id = $2`,
			hours, senderID,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update sender balance"})
		}
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE time_bank_balances SET hours_pending = hours_pending - $1, updated_at = NOW() WHERE user_id = $2`,
			hours, recipientID,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update recipient balance"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Tell the sender how it went (best-effort)
	ref := txnID
	meta := "{}"
	title := "Your hours were approved"
	if decision == StatusRejected {
		title = "Your hours were declined"
	}
	_ = alerts.CreateNotification(senderID, "timebank:"+decision, title, "", &ref, &meta)
	var senderEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, senderID).Scan(&senderEmail)
	if senderEmail != "" {
		_ = alerts.EnqueueHoursResolved(txnID, senderID, recipientID, senderEmail, hours, decision)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Transaction " + decision})
}
