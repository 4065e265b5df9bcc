package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail     = "email:welcome"
	TaskPasswordReset    = "email:password_reset"
	TaskBookingConfirmed = "email:booking_confirmed"
	TaskBookingRejected  = "email:booking_rejected"
	TaskBookingCancelled = "email:booking_cancelled"
	TaskBookingCompleted = "email:booking_completed"
	TaskHoursReceived    = "email:hours_received"
	TaskHoursResolved    = "email:hours_resolved"
	TaskMessageNew       = "email:message_new"
	TaskAdminAlert       = "email:admin_alert"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

type PasswordResetPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	Envelope  EmailEnvelope `json:"envelope"`
	Requested time.Time     `json:"requested"`
}

// Booking lifecycle payloads share one shape; Reason is only set on rejection.
type BookingEmailPayload struct {
	BookingID  string        `json:"booking_id"`
	ClientID   string        `json:"client_id"`
	ProviderID string        `json:"provider_id"`
	Email      string        `json:"email"`
	Hours      int           `json:"hours,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Envelope   EmailEnvelope `json:"envelope"`
	SentAt     time.Time     `json:"sent_at"`
}

type HoursEmailPayload struct {
	TransactionID string        `json:"transaction_id"`
	SenderID      string        `json:"sender_id"`
	RecipientID   string        `json:"recipient_id"`
	Email         string        `json:"email"`
	Hours         int           `json:"hours"`
	Decision      string        `json:"decision,omitempty"`
	Envelope      EmailEnvelope `json:"envelope"`
	SentAt        time.Time     `json:"sent_at"`
}

type MessageNewPayload struct {
	BookingID string        `json:"booking_id"`
	SenderID  string        `json:"sender_id"`
	Recipient string        `json:"recipient"`
	Email     string        `json:"email"`
	Body      string        `json:"body"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

type AdminAlertPayload struct {
	ActorID  string        `json:"actor_id"`
	Severity string        `json:"severity"` // info|warning|critical
	Message  string        `json:"message"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
