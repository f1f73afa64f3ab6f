package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lumen-rp/cadhub/pkg/configuration"
)

// Hub fans dispatch events out to connected websocket clients, partitioned by
// community. A client that cannot keep up with its buffer is dropped.
type Hub struct {
	opts     configuration.DispatchOptions
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]struct{}
}

type client struct {
	conn     *websocket.Conn
	tenantID uuid.UUID
	send     chan []byte
}

func NewHub(opts configuration.DispatchOptions, logger *logrus.Logger) *Hub {
	return &Hub{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: map[uuid.UUID]map[*client]struct{}{},
	}
}

// Serve upgrades the connection and pumps events until the client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn:     conn,
		tenantID: tenantID,
		send:     make(chan []byte, h.opts.ClientBuffer),
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Broadcast queues the event for every client in the community.
func (h *Hub) Broadcast(tenantID uuid.UUID, event string, payload any) {
	msg, err := json.Marshal(map[string]any{"event": event, "data": payload})
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal dispatch event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[tenantID] {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; the write pump closes it on the next tick.
			h.logger.WithField("tenant_id", tenantID).Warn("dispatch client buffer full, dropping event")
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.tenantID] == nil {
		h.clients[c.tenantID] = map[*client]struct{}{}
	}
	h.clients[c.tenantID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.clients[c.tenantID]; ok {
		if _, ok := peers[c]; ok {
			delete(peers, c)
			close(c.send)
			if len(peers) == 0 {
				delete(h.clients, c.tenantID)
			}
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
