// Package leads provides the leads bounded context module.
package leads

import (
	"heyjarvis_backend/internal/events"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/leads/handler"
	"heyjarvis_backend/internal/leads/service"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module.
func NewModule(store repository.LeadStore, scorer service.Scorer, bus events.Bus, notifier notification.Sink, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, scorer, bus, notifier, val, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
