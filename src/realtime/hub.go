// Package realtime is the push channel: one room per user ID, best-effort
// delivery to whatever sessions are connected right now, no backlog for
// offline recipients.
package realtime

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/lib"
)

// Envelope is the wire shape of every pushed event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// session wraps one websocket connection. The connection supports only a
// single concurrent writer, so every write goes through the session's lock.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) write(env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(env)
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*session]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*session]struct{}),
	}
}

// Push delivers the event to every session in the user's room. Write
// failures only drop that session; delivery is never guaranteed.
func (h *Hub) Push(userID primitive.ObjectID, event string, payload interface{}) {
	h.mu.RLock()
	room := h.rooms[userID.Hex()]
	sessions := make([]*session, 0, len(room))
	for s := range room {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.write(Envelope{Event: event, Data: payload}); err != nil {
			log.Printf("Dropping websocket session for user %s: %v", userID.Hex(), err)
			h.leave(userID.Hex(), s)
			s.conn.Close()
		}
	}
}

func (h *Hub) join(userID string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*session]struct{})
	}
	h.rooms[userID][s] = struct{}{}
}

func (h *Hub) leave(userID string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.rooms[userID]; room != nil {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// Sessions reports how many sessions are connected for the user.
func (h *Hub) Sessions(userID primitive.ObjectID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID.Hex()])
}

// Upgrade gates the websocket endpoint: only upgrade requests carrying a
// valid token get through, and the resolved user ID rides on the context.
func Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		if header, ok := lib.BearerToken(c.Get("Authorization")); ok {
			token = header
		}
	}
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Token not provided")
	}

	userID, err := lib.VerifyJWT(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	c.Locals("userId", userID)
	return c.Next()
}

// Handler keeps the session registered in its room until the peer goes away.
// Inbound frames are read and discarded; the channel is push-only.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userId").(string)
		if !ok || userID == "" {
			conn.Close()
			return
		}

		s := &session{conn: conn}
		h.join(userID, s)
		defer func() {
			h.leave(userID, s)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
