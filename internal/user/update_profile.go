package user

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

type UpdateProfileRequest struct {
	Name       string   `json:"name"`
	Bio        string   `json:"bio"`
	AvatarURL  string   `json:"avatar_url"`
	University string   `json:"university"`
	Skills     []string `json:"skills"`
}

// UpdateProfile applies a partial self-update; empty fields keep their value.
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(UpdateProfileRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE users
		SET
			name = COALESCE(NULLIF($1, ''), name),
			bio = COALESCE(NULLIF($2, ''), bio),
			avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
			university = COALESCE(NULLIF($4, ''), university),
			skills = COALESCE($5, skills),
			updated_at = NOW()
		WHERE id = $6
	`
	var skills []string
	if req.Skills != nil {
		skills = req.Skills
	}
	_, err := db.Conn.Exec(context.Background(), query, req.Name, req.Bio, req.AvatarURL, req.University, skills, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}
