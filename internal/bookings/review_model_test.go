package bookings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReviewRequest() CreateReviewRequest {
	return CreateReviewRequest{Rating: 5, Quality: 4, Speed: 5, Cooperation: 3, Comment: "great session"}
}

func TestValidateReviewHappyPath(t *testing.T) {
	b := newBooking(StatusCompleted)

	reviewee, err := ValidateReview(b, "client-1", validReviewRequest())
	require.NoError(t, err)
	assert.Equal(t, "provider-1", reviewee)

	reviewee, err = ValidateReview(b, "provider-1", validReviewRequest())
	require.NoError(t, err)
	assert.Equal(t, "client-1", reviewee)
}

func TestValidateReviewRequiresCompletedBooking(t *testing.T) {
	for _, status := range []string{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled} {
		b := newBooking(status)
		_, err := ValidateReview(b, "client-1", validReviewRequest())
		assert.ErrorIs(t, err, ErrNotCompleted, "status=%s", status)
	}
}

func TestValidateReviewRejectsOutsiders(t *testing.T) {
	b := newBooking(StatusCompleted)
	_, err := ValidateReview(b, "stranger", validReviewRequest())
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestValidateReviewRatingBounds(t *testing.T) {
	b := newBooking(StatusCompleted)

	for _, bad := range []int{0, -1, 6, 100} {
		req := validReviewRequest()
		req.Quality = bad
		_, err := ValidateReview(b, "client-1", req)
		assert.ErrorIs(t, err, ErrBadRating, "quality=%d", bad)
	}

	req := validReviewRequest()
	req.Rating = 0
	_, err := ValidateReview(b, "client-1", req)
	assert.ErrorIs(t, err, ErrBadRating)
}

func TestValidateReviewCommentLength(t *testing.T) {
	b := newBooking(StatusCompleted)

	req := validReviewRequest()
	req.Comment = strings.Repeat("x", 1000)
	_, err := ValidateReview(b, "client-1", req)
	assert.NoError(t, err)

	req.Comment = strings.Repeat("x", 1001)
	_, err = ValidateReview(b, "client-1", req)
	assert.ErrorIs(t, err, ErrCommentLength)
}
