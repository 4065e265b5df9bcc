package payments

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
)

// PendingPayments returns the verification queue for staff, oldest first
func PendingPayments(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT p.id::text, p.user_id::text, u.name, p.amount, p.phone, p.reference, p.proof_path,
                p.status, p.verification_note, p.verified_by::text, p.created_at, p.verified_at
         FROM payments p
         JOIN users u ON u.id = p.user_id
         WHERE p.status = 'pending'
         ORDER BY p.created_at ASC`,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}
	defer rows.Close()

	items := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.Amount, &p.Phone, &p.Reference, &p.ProofPath,
			&p.Status, &p.VerificationNote, &p.VerifiedBy, &p.CreatedAt, &p.VerifiedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse payment"})
		}
		items = append(items, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": items})
}

// VerifyPayment marks a pending claim as verified
func VerifyPayment(c echo.Context) error {
	return decidePayment(c, StatusVerified)
}

// RejectPayment marks a pending claim as rejected
func RejectPayment(c echo.Context) error {
	return decidePayment(c, StatusRejected)
}

// decidePayment is the single path for both outcomes. The status guard makes
// a second decision on the same claim a 409 instead of silently rewriting it.
func decidePayment(c echo.Context, decision string) error {
	staffID, ok := c.Get("user_id").(string)
	if !ok || staffID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID := c.Param("id")
	if _, err := uuid.Parse(paymentID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	var body struct {
		Note string `json:"note"`
	}
	_ = c.Bind(&body)

	var submitterID string
	err := db.Conn.QueryRow(context.Background(),
		`UPDATE payments
         SET status = $1, verification_note = NULLIF($2, ''), verified_by = $3, verified_at = NOW()
         WHERE id = $4 AND status = 'pending'
         RETURNING user_id::text`,
		decision, body.Note, staffID, paymentID,
	).Scan(&submitterID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment not found or already decided"})
	}

	ref := paymentID
	meta := "{}"
	title := "Your payment was " + decision
	msg := "Your ZainCash payment has been " + decision + "."
	if body.Note != "" {
		msg += " Note: " + body.Note
	}
	_ = alerts.CreateNotification(submitterID, "payment:"+decision, title, msg, &ref, &meta)

	return c.JSON(http.StatusOK, echo.Map{"id": paymentID, "status": decision})
}
