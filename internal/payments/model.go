package payments

import "time"

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

type Payment struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	UserName         string     `json:"user_name,omitempty"`
	Amount           int64      `json:"amount"`
	Phone            string     `json:"phone"`
	Reference        string     `json:"reference"`
	ProofPath        string     `json:"proof_path"`
	Status           string     `json:"status"`
	VerificationNote *string    `json:"verification_note"`
	VerifiedBy       *string    `json:"verified_by"`
	CreatedAt        time.Time  `json:"created_at"`
	VerifiedAt       *time.Time `json:"verified_at"`
}
