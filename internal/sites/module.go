// Package sites provides the generated sites bounded context module.
package sites

import (
	"heyjarvis_backend/internal/events"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/sites/handler"
	"heyjarvis_backend/internal/sites/service"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Module is the sites bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// Deps bundles the collaborators of the sites module.
type Deps struct {
	Store    repository.SiteStore
	Content  service.ContentGenerator
	Uploader service.Uploader
	Bucket   string
	Bus      events.Bus
	Notifier notification.Sink
}

// NewModule creates and initializes the sites module.
func NewModule(deps Deps, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(deps.Store, deps.Content, deps.Uploader, deps.Bucket, deps.Bus, deps.Notifier, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "sites"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/sites"))
}

var _ apphttp.Module = (*Module)(nil)
