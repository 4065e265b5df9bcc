package bookings

import (
	"errors"
	"time"
)

// Booking statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Booking struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	ClientID        string    `json:"client_id"`
	ProviderID      string    `json:"provider_id"`
	BookingDate     time.Time `json:"booking_date"`
	Duration        int       `json:"duration"`
	TotalHours      int       `json:"total_hours"`
	TotalAmount     int64     `json:"total_amount"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var (
	ErrNotParticipant    = errors.New("not a participant in this booking")
	ErrProviderOnly      = errors.New("only the provider may do this")
	ErrClientOnly        = errors.New("only the client may do this")
	ErrInvalidTransition = errors.New("booking is not in a state that allows this")
)

// Authorize checks whether actorID may move the booking to target.
// This is the single source of truth for the lifecycle:
//
//	pending   -> confirmed | rejected  (provider)
//	pending   -> cancelled             (client)
//	confirmed -> cancelled             (client)
//	confirmed -> completed             (either participant)
func Authorize(b *Booking, actorID, target string) error {
	if actorID != b.ClientID && actorID != b.ProviderID {
		return ErrNotParticipant
	}
	switch target {
	case StatusConfirmed, StatusRejected:
		if b.Status != StatusPending {
			return ErrInvalidTransition
		}
		if actorID != b.ProviderID {
			return ErrProviderOnly
		}
	case StatusCancelled:
		if b.Status != StatusPending && b.Status != StatusConfirmed {
			return ErrInvalidTransition
		}
		if actorID != b.ClientID {
			return ErrClientOnly
		}
	case StatusCompleted:
		if b.Status != StatusConfirmed {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ComputeTotal recomputes the booking total at the trusted boundary.
// Client-supplied totals are display hints only and never stored.
func ComputeTotal(hourlyRate int64, duration int) int64 {
	return hourlyRate * int64(duration)
}
