package bookings

import (
	"errors"
	"time"
)

type Review struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	ReviewerID  string    `json:"reviewer_id"`
	RevieweeID  string    `json:"reviewee_id"`
	Rating      int       `json:"rating"`
	Quality     int       `json:"quality"`
	Speed       int       `json:"speed"`
	Cooperation int       `json:"cooperation"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReviewWithDetails struct {
	Review
	ReviewerName string `json:"reviewer_name"`
}

type CreateReviewRequest struct {
	Rating      int    `json:"rating"`
	Quality     int    `json:"quality"`
	Speed       int    `json:"speed"`
	Cooperation int    `json:"cooperation"`
	Comment     string `json:"comment"`
}

type CreateReviewResponse struct {
	ReviewID string `json:"review_id"`
	Message  string `json:"message"`
}

type RatingSummary struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	RatingCounts  struct {
		FiveStar  int `json:"five_star"`
		FourStar  int `json:"four_star"`
		ThreeStar int `json:"three_star"`
		TwoStar   int `json:"two_star"`
		OneStar   int `json:"one_star"`
	} `json:"rating_counts"`
}

var (
	ErrNotCompleted  = errors.New("can only review completed bookings")
	ErrBadRating     = errors.New("all ratings must be between 1 and 5")
	ErrCommentLength = errors.New("comment too long (max 1000 characters)")
)

// ValidateReview applies the review rules and returns the counterparty
// being reviewed. Either participant may review, once per booking.
func ValidateReview(b *Booking, reviewerID string, req CreateReviewRequest) (string, error) {
	if reviewerID != b.ClientID && reviewerID != b.ProviderID {
		return "", ErrNotParticipant
	}
	if b.Status != StatusCompleted {
		return "", ErrNotCompleted
	}
	for _, v := range []int{req.Rating, req.Quality, req.Speed, req.Cooperation} {
		if v < 1 || v > 5 {
			return "", ErrBadRating
		}
	}
	if len(req.Comment) > 1000 {
		return "", ErrCommentLength
	}
	if reviewerID == b.ClientID {
		return b.ProviderID, nil
	}
	return b.ClientID, nil
}
