package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
	"github.com/obi-dev/campushub/internal/policy"
)

type AdminUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	University string    `json:"university"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// GET /admin/users
func ListUsers(c echo.Context) error {
	query := `SELECT id::text, name, email, role, COALESCE(university, ''), COALESCE(is_active, TRUE), created_at
	          FROM users`
	args := []interface{}{}
	if role := c.QueryParam("role"); role != "" {
		if !policy.ValidRole(role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role filter"})
		}
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch users"})
	}
	defer rows.Close()

	var users []AdminUser
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.University, &u.IsActive, &u.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read user record"})
		}
		users = append(users, u)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// POST /admin/users/:id/suspend
func SuspendUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	// Owners cannot be suspended through the API
	res, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET is_active = FALSE WHERE id = $1 AND role <> 'owner'`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to suspend user"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found or cannot be suspended"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user suspended", "user_id": userID})
}

// POST /admin/users/:id/activate
func ActivateUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	res, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET is_active = TRUE WHERE id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate user"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user activated", "user_id": userID})
}

// POST /admin/users/:id/role
func SetUserRole(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil || !policy.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if req.Role == policy.RoleOwner {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "owner role cannot be granted through the API"})
	}
	res, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET role = $1 WHERE id = $2 AND role <> 'owner'`, req.Role, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found or role locked"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role updated", "user_id": userID, "role": req.Role})
}
