// Package sse provides Server-Sent Events support for real-time notifications.
package sse

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"heyjarvis_backend/platform/logger"
)

const clientBuffer = 32

// Message is one pushed event.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	id     uuid.UUID
	events chan Message
}

// Service manages SSE connections and event broadcasting
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[uuid.UUID]*client),
		log:     log,
	}
}

// addClient registers a new client connection
func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

// removeClient unregisters a client connection
func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	close(c.events)
}

// Clients returns the number of connected clients.
func (s *Service) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Publish sends an event to every connected client. Clients whose buffer is
// full miss the event.
func (s *Service) Publish(msg Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		select {
		case c.events <- msg:
		default:
			s.log.Warn("sse: event buffer full", "client", c.id, "type", msg.Type)
		}
	}

	s.log.Debug("sse: published event", "type", msg.Type, "clients", len(s.clients))
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set SSE headers
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			id:     uuid.New(),
			events: make(chan Message, clientBuffer),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"clientId": cl.id})
		c.Writer.Flush()

		s.log.Debug("sse: client connected", "client", cl.id)

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse: client disconnected", "client", cl.id)
				return
			case msg, ok := <-cl.events:
				if !ok {
					return
				}
				data, err := json.Marshal(msg)
				if err != nil {
					s.log.Error("sse: marshal event", "type", msg.Type, "error", err)
					continue
				}
				c.SSEvent(msg.Type, string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.clients {
		close(c.events)
		delete(s.clients, id)
	}
}
