package bookings

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

// CreateReview lets a participant rate the counterparty on a completed booking
func CreateReview(c echo.Context) error {
	reviewerID, ok := c.Get("user_id").(string)
	if !ok || reviewerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id"})
	}
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id format"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := context.Background()
	b, err := fetchBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}

	revieweeID, err := ValidateReview(b, reviewerID, req)
	if err != nil {
		if errors.Is(err, ErrNotParticipant) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// One review per (booking, reviewer); the unique index backs this up
	var existingID string
	err = db.Conn.QueryRow(ctx,
		`SELECT id FROM reviews WHERE booking_id = $1 AND reviewer_id = $2`,
		bookingID, reviewerID,
	).Scan(&existingID)
	if err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already reviewed this booking"})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check existing review"})
	}

	reviewID := uuid.New().String()
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO reviews (id, booking_id, reviewer_id, reviewee_id, rating, quality, speed, cooperation, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		reviewID, bookingID, reviewerID, revieweeID, req.Rating, req.Quality, req.Speed, req.Cooperation, req.Comment, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "failed to create review"})
	}

	return c.JSON(http.StatusCreated, CreateReviewResponse{
		ReviewID: reviewID,
		Message:  "Review created successfully",
	})
}

// GetUserReviews returns reviews received by a user, with a rating summary
func GetUserReviews(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	page := 1
	limit := 10
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}
	offset := (page - 1) * limit
	ctx := context.Background()

	var userName string
	err := db.Conn.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, userID).Scan(&userName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}

	var summary RatingSummary
	summary.UserID = userID
	summary.UserName = userName

	err = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE reviewee_id = $1`,
		userID,
	).Scan(&summary.TotalReviews, &summary.AverageRating)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch rating summary"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE reviewee_id = $1 GROUP BY rating ORDER BY rating DESC`,
		userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch rating breakdown"})
	}
	defer rows.Close()

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			continue
		}
		switch rating {
		case 5:
			summary.RatingCounts.FiveStar = count
		case 4:
			summary.RatingCounts.FourStar = count
		case 3:
			summary.RatingCounts.ThreeStar = count
		case 2:
			summary.RatingCounts.TwoStar = count
		case 1:
			summary.RatingCounts.OneStar = count
		}
	}

	reviewRows, err := db.Conn.Query(ctx,
		`SELECT r.id, r.booking_id, r.reviewer_id, u.name, r.reviewee_id, r.rating, r.quality, r.speed, r.cooperation, r.comment, r.created_at
		 FROM reviews r
		 JOIN users u ON r.reviewer_id = u.id
		 WHERE r.reviewee_id = $1
		 ORDER BY r.created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	defer reviewRows.Close()

	var reviews []ReviewWithDetails
	for reviewRows.Next() {
		var review ReviewWithDetails
		if err := reviewRows.Scan(
			&review.ID, &review.BookingID, &review.ReviewerID, &review.ReviewerName,
			&review.RevieweeID, &review.Rating, &review.Quality, &review.Speed, &review.Cooperation,
			&review.Comment, &review.CreatedAt,
		); err != nil {
			continue
		}
		reviews = append(reviews, review)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"summary": summary,
		"reviews": reviews,
		"pagination": echo.Map{
			"page":  page,
			"limit": limit,
			"total": summary.TotalReviews,
		},
	})
}

// GetBookingReview returns a booking's reviews to its participants
func GetBookingReview(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id"})
	}

	ctx := context.Background()
	b, err := fetchBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if userID != b.ClientID && userID != b.ProviderID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this booking"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT id, booking_id, reviewer_id, reviewee_id, rating, quality, speed, cooperation, comment, created_at
		 FROM reviews WHERE booking_id = $1 ORDER BY created_at ASC`,
		bookingID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.BookingID, &r.ReviewerID, &r.RevieweeID, &r.Rating, &r.Quality, &r.Speed, &r.Cooperation, &r.Comment, &r.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse review"})
		}
		reviews = append(reviews, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
