// Package ws pushes notifications to WebSocket clients.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"heyjarvis_backend/platform/logger"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 50 * time.Second
	maxReadBytes = 4096
)

type conn struct {
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *conn) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks WebSocket connections and broadcasts to all of them.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*conn]struct{}
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewHub creates a hub. allowOrigin decides which browser origins may
// connect; nil allows all.
func NewHub(log *logger.Logger, allowOrigin func(origin string) bool) *Hub {
	h := &Hub{
		conns: make(map[*conn]struct{}),
		log:   log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowOrigin == nil {
				return true
			}
			return allowOrigin(origin)
		},
	}
	return h
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends msg as JSON to every connection. Slow connections miss
// the message.
func (h *Hub) Broadcast(msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("ws: marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		select {
		case c.send <- payload:
		default:
			h.log.Warn("ws: send buffer full, dropping message")
		}
	}
}

// Handler upgrades the request and serves the connection until it closes.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warn("ws: upgrade failed", "error", err)
			return
		}

		cl := &conn{ws: wsConn, send: make(chan []byte, sendBuffer)}
		greeting, _ := json.Marshal(map[string]string{"type": "connected"})
		cl.send <- greeting

		h.register(cl)
		go h.writePump(cl)
		h.readPump(cl)
	}
}

func (h *Hub) register(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		c.close()
	}
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *conn) {
	defer func() {
		h.unregister(c)
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxReadBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("ws: connection closed", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		delete(h.conns, c)
		c.close()
	}
}
