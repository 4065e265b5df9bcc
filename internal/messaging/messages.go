package messaging

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
)

type Message struct {
	ID          string  `json:"id"`
	BookingID   string  `json:"booking_id"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Content     string  `json:"content"`
	CreatedAt   string  `json:"created_at"`
	ReadAt      *string `json:"read_at"`
}

// threadParticipants returns the client and provider of a booking thread.
func threadParticipants(ctx context.Context, bookingID string) (clientID, providerID string, err error) {
	err = db.Conn.QueryRow(ctx,
		`SELECT client_id::text, provider_id::text FROM bookings WHERE id = $1`, bookingID,
	).Scan(&clientID, &providerID)
	return
}

// counterpartOf derives the recipient from the thread participants.
// Returns "" when the user is not part of the thread.
func counterpartOf(userID, clientID, providerID string) string {
	switch userID {
	case clientID:
		return providerID
	case providerID:
		return clientID
	}
	return ""
}

// SendMessage posts a message into a booking thread. Only the booking's
// client and provider may write; the recipient is always the other party.
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	if len(body.Content) > 5000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content too long (max 5000 characters)"})
	}

	clientID, providerID, err := threadParticipants(context.Background(), bookingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	recipientID := counterpartOf(userID, clientID, providerID)
	if recipientID == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this booking"})
	}

	msgID := uuid.New().String()
	var createdAt time.Time
	err = db.Conn.QueryRow(context.Background(),
		`INSERT INTO messages (id, booking_id, sender_id, recipient_id, content)
         VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		msgID, bookingID, userID, recipientID, body.Content,
	).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	BroadcastNewMessage(bookingID, echo.Map{
		"id":           msgID,
		"booking_id":   bookingID,
		"sender_id":    userID,
		"recipient_id": recipientID,
		"content":      body.Content,
		"created_at":   createdAt.UTC().Format(time.RFC3339),
	})

	ref := msgID
	meta := "{}"
	_ = alerts.CreateNotification(recipientID, "message:new", "New message on your booking", body.Content, &ref, &meta)

	var recipientEmail string
	_ = db.Conn.QueryRow(context.Background(), `SELECT email FROM users WHERE id = $1`, recipientID).Scan(&recipientEmail)
	if recipientEmail != "" {
		_ = alerts.EnqueueMessageNew(bookingID, userID, recipientEmail, recipientID, body.Content)
	}

	return c.JSON(http.StatusOK, echo.Map{"message_id": msgID})
}

// ListMessages returns the conversation for a booking, oldest first.
// An optional `since` RFC3339 query param limits to newer messages.
func ListMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	clientID, providerID, err := threadParticipants(context.Background(), bookingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if counterpartOf(userID, clientID, providerID) == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this booking"})
	}

	query := `SELECT id::text, sender_id::text, recipient_id::text, content, created_at, read_at
              FROM messages WHERE booking_id = $1 ORDER BY created_at ASC`
	args := []interface{}{bookingID}
	if sinceStr := c.QueryParam("since"); sinceStr != "" {
		since, perr := time.Parse(time.RFC3339, sinceStr)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid since timestamp, use RFC3339"})
		}
		query = `SELECT id::text, sender_id::text, recipient_id::text, content, created_at, read_at
                 FROM messages WHERE booking_id = $1 AND created_at > $2 ORDER BY created_at ASC`
		args = append(args, since)
	}

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list messages"})
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &createdAt, &readAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		m.BookingID = bookingID
		m.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		if readAt != nil {
			v := readAt.UTC().Format(time.RFC3339)
			m.ReadAt = &v
		}
		msgs = append(msgs, m)
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// UnreadCount returns how many messages in the thread the caller has not read
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	clientID, providerID, err := threadParticipants(context.Background(), bookingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if counterpartOf(userID, clientID, providerID) == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this booking"})
	}

	var count int64
	err = db.Conn.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM messages WHERE booking_id = $1 AND recipient_id = $2 AND read_at IS NULL`,
		bookingID, userID,
	).Scan(&count)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute unread count"})
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkMessageRead lets the recipient mark one message as read
func MarkMessageRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	msgID := c.Param("message_id")
	if bookingID == "" || msgID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking or message id"})
	}

	var recipientID string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT recipient_id::text FROM messages WHERE id = $1 AND booking_id = $2`, msgID, bookingID,
	).Scan(&recipientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch message"})
	}
	if recipientID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the recipient"})
	}

	var readTS time.Time
	err = db.Conn.QueryRow(context.Background(),
		`UPDATE messages SET read_at = COALESCE(read_at, NOW()) WHERE id = $1 AND recipient_id = $2 RETURNING read_at`,
		msgID, userID,
	).Scan(&readTS)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}

	BroadcastMessageRead(bookingID, echo.Map{
		"message_id": msgID,
		"booking_id": bookingID,
		"user_id":    userID,
		"read_at":    readTS.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message_id": msgID, "read_at": readTS.UTC().Format(time.RFC3339)})
}
