package timebank

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// GetUserTransactions returns transfers the user sent or received, newest first
func GetUserTransactions(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, sender_id, recipient_id, hours, description, status, reference, created_at, resolved_at
		 FROM time_bank_transactions
		 WHERE sender_id = $1 OR recipient_id = $1
		 ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.SenderID, &t.RecipientID, &t.Hours, &t.Description, &t.Status, &t.Reference, &t.CreatedAt, &t.ResolvedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan error"})
		}
		txs = append(txs, t)
	}

	return c.JSON(http.StatusOK, echo.Map{"transactions": txs})
}
