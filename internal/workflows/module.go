// Package workflows provides the workflows bounded context module.
package workflows

import (
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/workflows/handler"
	"heyjarvis_backend/internal/workflows/service"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Module is the workflows bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the workflows module.
func NewModule(store repository.WorkflowStore, canceller service.Canceller, notifier notification.Sink, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, canceller, notifier, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "workflows"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/workflows"))
}

var _ apphttp.Module = (*Module)(nil)
