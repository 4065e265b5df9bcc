package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// hub fans events out to every websocket attached to one booking thread
type hub struct {
	bookingID string
	clients   map[*websocket.Conn]bool
	mu        sync.RWMutex
}

var (
	hubsMu sync.RWMutex
	hubs   = make(map[string]*hub)
)

func getHub(bookingID string) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if h, ok := hubs[bookingID]; ok {
		return h
	}
	h := &hub{bookingID: bookingID, clients: make(map[*websocket.Conn]bool)}
	hubs[bookingID] = h
	return h
}

func (h *hub) broadcast(evt wsEvent) {
	payload, _ := json.Marshal(evt)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	empty := len(h.clients) == 0
	h.mu.Unlock()

	// Drop the hub once its last subscriber leaves so idle threads do not
	// accumulate for the process lifetime.
	if empty {
		hubsMu.Lock()
		h.mu.RLock()
		if len(h.clients) == 0 {
			delete(hubs, h.bookingID)
		}
		h.mu.RUnlock()
		hubsMu.Unlock()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// BookingWS upgrades to a websocket carrying realtime events for one
// booking thread. Only the booking's participants may subscribe.
func BookingWS(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id"})
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

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h := getHub(bookingID)
	h.register(ws)
	h.broadcast(wsEvent{Type: "presence_join", Data: echo.Map{"user_id": userID}})

	// Read loop; clients do not push, the protocol is server push only
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			h.unregister(ws)
			_ = ws.Close()
			h.broadcast(wsEvent{Type: "presence_leave", Data: echo.Map{"user_id": userID}})
			break
		}
	}
	return nil
}

// BroadcastNewMessage publishes a message_new event to thread subscribers
func BroadcastNewMessage(bookingID string, message interface{}) {
	getHub(bookingID).broadcast(wsEvent{Type: "message_new", Data: message})
}

// BroadcastMessageRead publishes a message_read event to thread subscribers
func BroadcastMessageRead(bookingID string, payload interface{}) {
	getHub(bookingID).broadcast(wsEvent{Type: "message_read", Data: payload})
}
