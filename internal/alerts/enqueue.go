package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

func enqueue(taskType, queue string, payload any) error {
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(taskType, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue(queue))
	return err
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	base = strings.TrimRight(base, "/")

	subject := fmt.Sprintf("Welcome to CampusHub, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining CampusHub.\n\nOpen CampusHub: %s\n\nIf the link doesn't work, copy and paste the URL above.", name, base)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	return enqueue(TaskWelcomeEmail, "emails",
		WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()})
}

// EnqueuePasswordReset schedules a password reset notification
func EnqueuePasswordReset(userID, email, resetURL, name string) error {
	expiry := os.Getenv("PASSWORD_RESET_EXP_MINUTES")
	if expiry == "" {
		expiry = "30"
	}
	subject := "Password reset instructions"
	body := fmt.Sprintf("Hello %s,\n\nWe received a request to reset your CampusHub password.\n\nTo proceed, open the link below:\n%s\n\nThis link expires in %s minutes. If you did not request this, no action is required.\n\n— CampusHub Team", name, resetURL, expiry)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	return enqueue(TaskPasswordReset, "emails",
		PasswordResetPayload{UserID: userID, Email: email, ResetURL: resetURL, Envelope: env, Requested: time.Now()})
}

// EnqueueBookingConfirmed notifies the client after the provider confirms
func EnqueueBookingConfirmed(bookingID, clientID, providerID, clientEmail string, hours int) error {
	env := EmailEnvelope{
		To:      clientEmail,
		Subject: "Your booking has been confirmed",
		Body:    fmt.Sprintf("Booking %s is confirmed for %d hour(s).", bookingID, hours),
	}
	return enqueue(TaskBookingConfirmed, "emails",
		BookingEmailPayload{BookingID: bookingID, ClientID: clientID, ProviderID: providerID, Email: clientEmail, Hours: hours, Envelope: env, SentAt: time.Now()})
}

// EnqueueBookingRejected notifies the client that the provider declined
func EnqueueBookingRejected(bookingID, clientID, providerID, clientEmail, reason string) error {
	body := fmt.Sprintf("Booking %s was declined by the provider.", bookingID)
	if reason != "" {
		body += "\nReason: " + reason
	}
	env := EmailEnvelope{To: clientEmail, Subject: "Your booking was declined", Body: body}
	return enqueue(TaskBookingRejected, "emails",
		BookingEmailPayload{BookingID: bookingID, ClientID: clientID, ProviderID: providerID, Email: clientEmail, Reason: reason, Envelope: env, SentAt: time.Now()})
}

// EnqueueBookingCancelled notifies the provider that the client withdrew
func EnqueueBookingCancelled(bookingID, clientID, providerID, providerEmail string) error {
	env := EmailEnvelope{
		To:      providerEmail,
		Subject: "A booking was cancelled",
		Body:    fmt.Sprintf("Booking %s was cancelled by the client.", bookingID),
	}
	return enqueue(TaskBookingCancelled, "emails",
		BookingEmailPayload{BookingID: bookingID, ClientID: clientID, ProviderID: providerID, Email: providerEmail, Envelope: env, SentAt: time.Now()})
}

// EnqueueBookingCompleted notifies the provider that hours were credited
func EnqueueBookingCompleted(bookingID, clientID, providerID, providerEmail string, hours int) error {
	env := EmailEnvelope{
		To:      providerEmail,
		Subject: "Booking completed",
		Body:    fmt.Sprintf("Booking %s is completed. %d hour(s) have been credited to your time bank.", bookingID, hours),
	}
	return enqueue(TaskBookingCompleted, "emails",
		BookingEmailPayload{BookingID: bookingID, ClientID: clientID, ProviderID: providerID, Email: providerEmail, Hours: hours, Envelope: env, SentAt: time.Now()})
}

// EnqueueHoursReceived notifies the recipient of a pending hour transfer
func EnqueueHoursReceived(txID, senderID, recipientID, recipientEmail string, hours int) error {
	env := EmailEnvelope{
		To:      recipientEmail,
		Subject: "You received hours on CampusHub",
		Body:    fmt.Sprintf("You have a pending transfer of %d hour(s). Approve or decline it in your time bank.", hours),
	}
	return enqueue(TaskHoursReceived, "emails",
		HoursEmailPayload{TransactionID: txID, SenderID: senderID, RecipientID: recipientID, Email: recipientEmail, Hours: hours, Envelope: env, SentAt: time.Now()})
}

// EnqueueHoursResolved tells the sender how the recipient responded
func EnqueueHoursResolved(txID, senderID, recipientID, senderEmail string, hours int, decision string) error {
	env := EmailEnvelope{
		To:      senderEmail,
		Subject: fmt.Sprintf("Your hour transfer was %s", decision),
		Body:    fmt.Sprintf("Your transfer of %d hour(s) was %s by the recipient.", hours, decision),
	}
	return enqueue(TaskHoursResolved, "emails",
		HoursEmailPayload{TransactionID: txID, SenderID: senderID, RecipientID: recipientID, Email: senderEmail, Hours: hours, Decision: decision, Envelope: env, SentAt: time.Now()})
}

// EnqueueMessageNew notifies the recipient of a new thread message
func EnqueueMessageNew(bookingID, senderID, recipientEmail, recipientID, body string) error {
	env := EmailEnvelope{To: recipientEmail, Subject: "New message on your booking", Body: body}
	return enqueue(TaskMessageNew, "emails",
		MessageNewPayload{BookingID: bookingID, SenderID: senderID, Recipient: recipientID, Email: recipientEmail, Body: body, Envelope: env, SentAt: time.Now()})
}

// EnqueueAdminAlert sends an alert to the staff mailbox
func EnqueueAdminAlert(actorID, severity, message string) error {
	to := os.Getenv("ADMIN_ALERT_EMAIL")
	if to == "" {
		to = "staff@campushub.local"
	}
	env := EmailEnvelope{To: to, Subject: "CampusHub Alert", Body: message}
	return enqueue(TaskAdminAlert, "alerts",
		AdminAlertPayload{ActorID: actorID, Severity: severity, Message: message, Envelope: env, SentAt: time.Now()})
}
