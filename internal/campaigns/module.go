// Package campaigns provides the campaigns bounded context module.
package campaigns

import (
	"heyjarvis_backend/internal/campaigns/handler"
	"heyjarvis_backend/internal/campaigns/service"
	"heyjarvis_backend/internal/events"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the campaigns module.
func NewModule(store repository.CampaignStore, bus events.Bus, notifier notification.Sink, cfg config.CampaignConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, bus, notifier, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "campaigns"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/campaigns"))
}

var _ apphttp.Module = (*Module)(nil)
