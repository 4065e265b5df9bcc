package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// GET /users/:id/profile
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var (
		id         string
		name       string
		bio        string
		avatarURL  string
		university string
		skills     []string
		role       string
		createdAt  time.Time
	)

	err := db.Conn.QueryRow(context.Background(), `
		SELECT id, name, COALESCE(bio, ''), COALESCE(avatar_url, ''), COALESCE(university, ''), skills, role, created_at
		FROM users
		WHERE id = $1 AND COALESCE(is_active, TRUE)
	`, userID).Scan(&id, &name, &bio, &avatarURL, &university, &skills, &role, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch profile"})
	}

	// Public view: email deliberately omitted
	return c.JSON(http.StatusOK, echo.Map{
		"id":         id,
		"name":       name,
		"bio":        bio,
		"avatar_url": avatarURL,
		"university": university,
		"skills":     skills,
		"role":       role,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})
}
