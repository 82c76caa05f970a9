package services

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WriteTimeout specifies the maximum duration for completing a write
// to a connected client.
const WriteTimeout = 10 * time.Second

// PushMessage is the envelope sent over the websocket feed.
type PushMessage struct {
	Kind string `json:"kind"` // notification | chat
	Data any    `json:"data"`
}

// Hub fans committed changes out to connected clients, keyed by account.
// Delivery is at-least-once and best-effort: a slow or broken connection
// is dropped and the client reconciles by refetching on reconnect.
type Hub struct {
	mu      sync.RWMutex
	writeMu sync.Mutex // gorilla allows one concurrent writer per conn
	clients map[int]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int]map[*websocket.Conn]bool)}
}

func (h *Hub) Register(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) Unregister(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Send delivers a message to every connection of one account.
func (h *Hub) Send(userID int, msg PushMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients[userID]))
	for conn := range h.clients[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket push to user %d failed: %v", userID, err)
			h.Unregister(userID, conn)
			_ = conn.Close()
		}
	}
}

// SendTo delivers a message to each of the given accounts.
func (h *Hub) SendTo(userIDs []int, msg PushMessage) {
	for _, id := range userIDs {
		h.Send(id, msg)
	}
}
