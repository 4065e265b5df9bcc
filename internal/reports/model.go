package reports

import (
	"errors"
	"time"
)

const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetProfile = "profile"
	TargetListing = "listing"
)

var (
	ErrBadTarget   = errors.New("unknown report target type")
	ErrNoReason    = errors.New("reason is required")
	ErrNotHideable = errors.New("this target type cannot be hidden")
)

type Report struct {
	ID             string     `json:"id"`
	ReporterID     string     `json:"reporter_id"`
	ReporterName   string     `json:"reporter_name,omitempty"`
	TargetType     string     `json:"target_type"`
	TargetID       string     `json:"target_id"`
	Reason         string     `json:"reason"`
	Details        string     `json:"details"`
	Status         string     `json:"status"`
	ResolutionNote *string    `json:"resolution_note"`
	ResolvedBy     *string    `json:"resolved_by"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at"`
}

// ValidTarget reports whether t is a known report target type.
func ValidTarget(t string) bool {
	switch t {
	case TargetPost, TargetComment, TargetProfile, TargetListing:
		return true
	}
	return false
}

// Hideable reports whether resolving a report against this target type
// can also hide the underlying content.
func Hideable(t string) bool {
	switch t {
	case TargetPost, TargetProfile, TargetListing:
		return true
	}
	return false
}

// ValidateFiling checks a new report before it is stored.
func ValidateFiling(targetType, reason string) error {
	if !ValidTarget(targetType) {
		return ErrBadTarget
	}
	if reason == "" {
		return ErrNoReason
	}
	return nil
}
