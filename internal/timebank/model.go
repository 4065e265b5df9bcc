package timebank

import (
	"errors"
	"time"
)

// Transaction statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Transaction is a peer-to-peer hour transfer. The sender offers hours,
// the recipient approves or rejects.
type Transaction struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Hours       int        `json:"hours"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Reference   *string    `json:"reference,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// Balance is the per-user aggregate maintained alongside the transaction log.
type Balance struct {
	UserID       string `json:"user_id"`
	HoursEarned  int    `json:"hours_earned"`
	HoursSpent   int    `json:"hours_spent"`
	HoursPending int    `json:"hours_pending"`
}

var (
	ErrNotPending    = errors.New("transaction already resolved")
	ErrNotRecipient  = errors.New("only the recipient may resolve this transaction")
	ErrBadDecision   = errors.New("decision must be approved or rejected")
	ErrSelfTransfer  = errors.New("cannot send hours to yourself")
	ErrNonPositive   = errors.New("hours must be a positive number")
	ErrNoDescription = errors.New("description is required")
)

// ValidateSend checks a new transfer before it is recorded. A pending
// transfer adds to the recipient's hours_pending; the sender's balance is
// untouched until approval, and sends are not capped by hours held.
func ValidateSend(senderID, recipientID string, hours int, description string) error {
	if recipientID == "" || recipientID == senderID {
		return ErrSelfTransfer
	}
	if hours <= 0 {
		return ErrNonPositive
	}
	if description == "" {
		return ErrNoDescription
	}
	return nil
}

// Apply resolves a pending transaction and folds it into both balances.
// Approve: recipient pending -> earned, sender spent grows.
// Reject: recipient pending shrinks, nothing else moves.
// The same arithmetic runs inside the SQL transaction in respond.go;
// this form exists so the rule has one definition the tests can pin down.
func Apply(sender, recipient *Balance, t *Transaction, decision string) error {
	if t.Status != StatusPending {
		return ErrNotPending
	}
	switch decision {
	case StatusApproved:
		recipient.HoursPending -= t.Hours
		recipient.HoursEarned += t.Hours
		sender.HoursSpent += t.Hours
	case StatusRejected:
		recipient.HoursPending -= t.Hours
	default:
		return ErrBadDecision
	}
	t.Status = decision
	return nil
}
