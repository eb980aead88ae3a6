package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live connections keyed by user id. A user may hold several
// connections at once; delivery to a user reaches every one of them.
type Hub struct {
	mu sync.RWMutex

	// connections maps user id to that user's open connections.
	connections map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Register adds the connection. It takes effect immediately, so an
// Unregister issued right after always sees the client in the map.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	set, ok := h.connections[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.connections[client.UserID] = set
	}
	set[client] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes the connection and closes its send channel. Unknown
// clients are ignored, so the call is safe to repeat.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.connections[client.UserID]
	if !ok {
		return
	}
	if _, present := set[client]; !present {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.connections, client.UserID)
	}
	close(client.Send)
}

// BroadcastToUser delivers payload to every open connection the user
// has. No connections is not an error; the payload is simply dropped.
func (h *Hub) BroadcastToUser(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	for client := range h.connections[userID] {
		client.SendMessage(payload)
	}
	h.mu.RUnlock()
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// TotalConnections returns the number of open connections across all users.
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, set := range h.connections {
		total += len(set)
	}
	return total
}
