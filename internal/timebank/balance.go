package timebank

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// GetBalance returns the authenticated user's time-bank balance
func GetBalance(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var b Balance
	b.UserID = userID
	err := db.Conn.QueryRow(context.Background(),
		`SELECT hours_earned, hours_spent, hours_pending FROM time_bank_balances WHERE user_id=$1`, userID).
		Scan(&b.HoursEarned, &b.HoursSpent, &b.HoursPending)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "balance not found"})
	}

	return c.JSON(http.StatusOK, b)
}
