package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, listings, posts, events int
	var pendingReports, pendingPayments int
	var hoursCirculating int64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE status <> 'removed'`).Scan(&listings)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE status = 'visible'`).Scan(&posts)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE status = 'visible'`).Scan(&events)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = 'pending'`).Scan(&pendingReports)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE status = 'pending'`).Scan(&pendingPayments)
	_ = db.Conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(hours_earned - hours_spent), 0) FROM time_bank_balances`).Scan(&hoursCirculating)

	bookingsByStatus := map[string]int{}
	rows, err := db.Conn.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var status string
			var count int
			if err := rows.Scan(&status, &count); err == nil {
				bookingsByStatus[status] = count
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":             users,
		"listings":          listings,
		"posts":             posts,
		"events":            events,
		"bookings":          bookingsByStatus,
		"pending_reports":   pendingReports,
		"pending_payments":  pendingPayments,
		"hours_circulating": hoursCirculating,
	})
}
