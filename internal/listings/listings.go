package listings

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// CreateListing lets a user publish a new offer or request
func CreateListing(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Kind        string `json:"kind"`
		HourlyRate  int64  `json:"hourly_rate"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" || req.HourlyRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive hourly_rate are required"})
	}
	if req.Kind == "" {
		req.Kind = "offer"
	}
	if req.Kind != "offer" && req.Kind != "request" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be offer or request"})
	}

	listingID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO listings (id, user_id, title, description, category, kind, hourly_rate, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8)`,
		listingID, uid, req.Title, req.Description, req.Category, req.Kind, req.HourlyRate, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create listing"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"listing_id": listingID,
		"message":    "listing created successfully",
	})
}

// SearchListings returns active listings with optional filters and pagination
func SearchListings(c echo.Context) error {
	q := c.QueryParam("q")
	category := c.QueryParam("category")
	kind := c.QueryParam("kind")
	minRate := c.QueryParam("min_rate")
	maxRate := c.QueryParam("max_rate")
	sort := c.QueryParam("sort")
	limit := 20
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	query := `SELECT l.id, l.user_id, u.name, l.title, l.description, l.category, l.kind, l.hourly_rate, l.created_at,
                     COALESCE(AVG(r.rating)::float, 0) AS avg_rating
              FROM listings l
              JOIN users u ON u.id = l.user_id
              LEFT JOIN reviews r ON r.reviewee_id = l.user_id`

	where := []string{"l.status = 'active'", "COALESCE(u.is_active, TRUE)"}
	var args []any
	add := func(cond string, vals ...any) {
		for _, v := range vals {
			args = append(args, v)
			cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(args)), 1)
		}
		where = append(where, cond)
	}

	if q != "" {
		add("(l.title ILIKE ? OR l.description ILIKE ?)", "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		add("l.category = ?", category)
	}
	if kind != "" {
		add("l.kind = ?", kind)
	}
	if minRate != "" {
		v, err := strconv.ParseInt(minRate, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_rate must be a number"})
		}
		add("l.hourly_rate >= ?", v)
	}
	if maxRate != "" {
		v, err := strconv.ParseInt(maxRate, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_rate must be a number"})
		}
		add("l.hourly_rate <= ?", v)
	}

	query += " WHERE " + strings.Join(where, " AND ")
	query += " GROUP BY l.id, u.name ORDER BY "
	switch sort {
	case "rate_asc":
		query += "l.hourly_rate ASC"
	case "rate_desc":
		query += "l.hourly_rate DESC"
	case "rating_desc":
		query += "avg_rating DESC"
	case "oldest":
		query += "l.created_at ASC"
	default:
		query += "l.created_at DESC"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch listings"})
	}
	defer rows.Close()

	var results []ListingSummary
	for rows.Next() {
		var s ListingSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.OwnerName, &s.Title, &s.Description, &s.Category, &s.Kind, &s.HourlyRate, &s.CreatedAt, &s.AvgRating); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse listing record"})
		}
		results = append(results, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"listings": results})
}

// GetUserListings returns all listings created by the authenticated user
func GetUserListings(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, user_id, title, description, category, kind, hourly_rate, status, created_at
		 FROM listings WHERE user_id = $1 AND status != 'removed' ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch your listings"})
	}
	defer rows.Close()

	var results []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.Description, &l.Category, &l.Kind, &l.HourlyRate, &l.Status, &l.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse listing record"})
		}
		results = append(results, l)
	}

	return c.JSON(http.StatusOK, echo.Map{"listings": results})
}

// UpdateListing lets the owner edit or hide their own listing
func UpdateListing(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	listingID := c.Param("id")
	if listingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing listing id"})
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		HourlyRate  int64  `json:"hourly_rate"`
		Status      string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.HourlyRate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hourly_rate must be positive"})
	}
	// Owners can toggle active/hidden; 'removed' is reserved for moderation
	if req.Status != "" && req.Status != "active" && req.Status != "hidden" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or hidden"})
	}

	ct, err := db.Conn.Exec(context.Background(), `
		UPDATE listings
		SET
			title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE(NULLIF($2, ''), description),
			category = COALESCE(NULLIF($3, ''), category),
			hourly_rate = CASE WHEN $4::bigint > 0 THEN $4 ELSE hourly_rate END,
			status = COALESCE(NULLIF($5, ''), status),
			updated_at = NOW()
		WHERE id = $6 AND user_id = $7 AND status != 'removed'
	`, req.Title, req.Description, req.Category, req.HourlyRate, req.Status, listingID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update listing"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "listing updated"})
}
