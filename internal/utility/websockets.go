package utility

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub holds the live form connections: Map[ConnectionID] -> Connection
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// NewUpgrader returns the websocket upgrader for the form page. Outside
// development only same-origin handshakes are accepted (gorilla's default check).
func NewUpgrader(production bool) *websocket.Upgrader {
	u := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if !production {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// Register a new client connection
func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = conn
	log.Info().Str("connection_id", id).Msg("WebSocket Client Connected")
}

// Unregister a client (when they close the tab)
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		log.Info().Str("connection_id", id).Msg("WebSocket Client Disconnected")
	}
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll sends a going-away close frame to every client and drops them.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
			log.Warn().Err(err).Str("connection_id", id).Msg("Failed to send close frame")
		}
		conn.Close()
		delete(h.clients, id)
	}
}
