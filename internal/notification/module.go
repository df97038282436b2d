// Package notification pushes "something changed" events to dashboard
// subscribers over SSE and WebSocket, and mails urgent approval requests.
package notification

import (
	"context"
	"sync"

	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/notification/sse"
	"heyjarvis_backend/internal/notification/ws"
	"heyjarvis_backend/platform/logger"
)

// Module fans events out to every push channel and the approval mailer.
type Module struct {
	sse    *sse.Service
	hub    *ws.Hub
	mailer *ApprovalMailer
	log    *logger.Logger

	mu    sync.RWMutex
	sinks []Sink
}

// NewModule creates the notification module. mailer may be nil.
func NewModule(sseSvc *sse.Service, hub *ws.Hub, mailer *ApprovalMailer, log *logger.Logger) *Module {
	return &Module{sse: sseSvc, hub: hub, mailer: mailer, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the push endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/events", m.sse.Handler())
	ctx.Engine.GET("/ws", m.hub.Handler())
}

// AddSink registers an extra receiver for every event.
func (m *Module) AddSink(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Notify implements Sink. It never blocks on subscribers.
func (m *Module) Notify(ctx context.Context, event Event) {
	m.sse.Publish(sse.Message{Type: event.Type, Data: event.Data})
	m.hub.Broadcast(event)

	if m.mailer != nil {
		m.mailer.Notify(ctx, event)
	}

	m.mu.RLock()
	sinks := m.sinks
	m.mu.RUnlock()
	for _, s := range sinks {
		s.Notify(ctx, event)
	}
}

// Close disconnects every push client.
func (m *Module) Close() {
	m.sse.Close()
	m.hub.Close()
	if m.mailer != nil {
		m.mailer.Wait()
	}
}

var (
	_ Sink           = (*Module)(nil)
	_ apphttp.Module = (*Module)(nil)
)
