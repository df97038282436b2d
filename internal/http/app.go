// Package http holds the pieces the router is assembled from: the Module
// contract every domain module implements and the App built by cmd/api.
package http

import (
	"context"

	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker is satisfied by both record stores; /api/health pings it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is everything the router needs once cmd/api has wired the store, the
// engine and the modules.
type App struct {
	// Config drives CORS and rate limiting.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is the record store, memory or Postgres.
	Health HealthChecker
	// EventBus carries domain events from the modules to the orchestration engine.
	EventBus events.Bus
	// Modules are mounted in order; notification first so /ws and /events exist
	// before any module can broadcast.
	Modules []Module
}
