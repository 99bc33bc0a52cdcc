package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"joyland-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes presence stats to every connected client on a fixed interval.
// The feed is public, same as the landing page it powers, so there is no
// auth handshake.
type Hub struct {
	mu              sync.RWMutex
	connections     map[*websocket.Conn]struct{}
	presenceService *services.PresenceService
	interval        time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

func NewHub(presenceService *services.PresenceService, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Hub{
		connections:     make(map[*websocket.Conn]struct{}),
		presenceService: presenceService,
		interval:        interval,
		stop:            make(chan struct{}),
	}
}

// Run broadcasts until Stop is called. Ticks with no connections skip the
// stats query entirely.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case <-ticker.C:
			if h.connectionCount() == 0 {
				continue
			}
			stats := h.presenceService.Stats(ctx)
			data, err := json.Marshal(stats)
			if err != nil {
				continue
			}
			h.broadcast(data)
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	// Push a snapshot immediately so clients don't wait a full tick. This
	// happens before the connection joins the broadcast set: once registered,
	// only the Run loop may write to it.
	if data, err := json.Marshal(h.presenceService.Stats(r.Context())); err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			return
		}
	}

	h.register(conn)

	go func() {
		defer h.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = struct{}{}
	log.Printf("WebSocket connected (total: %d)", len(h.connections))
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.connections, conn)
	log.Printf("WebSocket disconnected (total: %d)", len(h.connections))
}

func (h *Hub) connectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.connections {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
