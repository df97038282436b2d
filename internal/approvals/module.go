// Package approvals provides the approvals bounded context module.
package approvals

import (
	"heyjarvis_backend/internal/approvals/handler"
	"heyjarvis_backend/internal/approvals/service"
	"heyjarvis_backend/internal/events"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Module is the approvals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the approvals module.
func NewModule(store repository.ApprovalStore, bus events.Bus, notifier notification.Sink, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, bus, notifier, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "approvals"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/approvals"))
}

var _ apphttp.Module = (*Module)(nil)
