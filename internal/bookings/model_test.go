package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBooking(status string) *Booking {
	return &Booking{
		ID:         "b-1",
		ClientID:   "client-1",
		ProviderID: "provider-1",
		Status:     status,
	}
}

func TestAuthorizeConfirmIsProviderOnly(t *testing.T) {
	b := newBooking(StatusPending)

	assert.NoError(t, Authorize(b, "provider-1", StatusConfirmed))
	assert.ErrorIs(t, Authorize(b, "client-1", StatusConfirmed), ErrProviderOnly)
	assert.ErrorIs(t, Authorize(b, "stranger", StatusConfirmed), ErrNotParticipant)
}

func TestAuthorizeRejectIsProviderOnly(t *testing.T) {
	b := newBooking(StatusPending)

	assert.NoError(t, Authorize(b, "provider-1", StatusRejected))
	assert.ErrorIs(t, Authorize(b, "client-1", StatusRejected), ErrProviderOnly)
}

func TestAuthorizeCancelIsClientOnly(t *testing.T) {
	pending := newBooking(StatusPending)
	confirmed := newBooking(StatusConfirmed)

	assert.NoError(t, Authorize(pending, "client-1", StatusCancelled))
	assert.NoError(t, Authorize(confirmed, "client-1", StatusCancelled))
	assert.ErrorIs(t, Authorize(pending, "provider-1", StatusCancelled), ErrClientOnly)
}

func TestAuthorizeCompleteAllowsEitherParticipant(t *testing.T) {
	b := newBooking(StatusConfirmed)

	assert.NoError(t, Authorize(b, "client-1", StatusCompleted))
	assert.NoError(t, Authorize(b, "provider-1", StatusCompleted))
	assert.ErrorIs(t, Authorize(b, "stranger", StatusCompleted), ErrNotParticipant)
}

func TestAuthorizeRejectsStaleTransitions(t *testing.T) {
	cases := []struct {
		status string
		target string
	}{
		{StatusConfirmed, StatusConfirmed},
		{StatusRejected, StatusConfirmed},
		{StatusCancelled, StatusRejected},
		{StatusCompleted, StatusCancelled},
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusCompleted},
		{StatusPending, "garbage"},
	}
	for _, tc := range cases {
		b := newBooking(tc.status)
		actor := b.ProviderID
		if tc.target == StatusCancelled {
			actor = b.ClientID
		}
		assert.ErrorIs(t, Authorize(b, actor, tc.target), ErrInvalidTransition,
			"status=%s target=%s", tc.status, tc.target)
	}
}

func TestComputeTotal(t *testing.T) {
	assert.Equal(t, int64(6), ComputeTotal(3, 2))
	assert.Equal(t, int64(0), ComputeTotal(0, 10))
	assert.Equal(t, int64(2500), ComputeTotal(500, 5))
}
