package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"bridgegen/internal/contextutils"
	"bridgegen/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Notification is the payload pushed to connected clients
type Notification struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub pushes badge award notifications to connected users over
// websockets. It subscribes to the event bus; each user may hold
// multiple connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
	logger  *zap.Logger
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID int64
}

// NewHub creates a notification hub and subscribes it to badge awards
func NewHub(bus events.EventBus, logger *zap.Logger) *Hub {
	h := &Hub{
		clients: make(map[int64]map[*client]struct{}),
		logger:  logger,
	}

	_ = bus.Subscribe(events.EventTypeBadgeAwarded, events.EventHandlerFunc{
		ID: "ws-badge-notifier",
		Func: func(ctx context.Context, event events.Event) error {
			awarded, ok := event.(*events.BadgeAwardedEvent)
			if !ok || awarded.GetUserID() == nil {
				return nil
			}
			h.NotifyUser(*awarded.GetUserID(), &Notification{
				Type: "badge_awarded",
				Payload: map[string]interface{}{
					"badge_id":    awarded.BadgeID,
					"badge_title": awarded.BadgeTitle,
				},
				Timestamp: awarded.GetTimestamp(),
			})
			return nil
		},
	})
	return h
}

// ServeHTTP upgrades an authenticated request to a websocket connection
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: *userID,
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

// NotifyUser pushes a notification to every connection a user holds.
// Slow connections are skipped rather than blocking the caller.
func (h *Hub) NotifyUser(userID int64, n *Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to encode notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping notification for slow connection",
				zap.Int64("user_id", userID),
			)
		}
	}
}

// ConnectionCount returns the number of open connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.userID]; ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
}

// readPump drains client messages to process control frames
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
