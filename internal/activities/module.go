// Package activities serves the recent activity feed.
package activities

import (
	"github.com/gin-gonic/gin"

	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/httpkit"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

type Module struct {
	store repository.ActivityStore
}

func NewModule(store repository.ActivityStore) *Module {
	return &Module{store: store}
}

func (m *Module) Name() string {
	return "activities"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/activities", m.List)
}

// List returns the most recent activities, newest first.
// GET /api/v1/activities?limit=20
func (m *Module) List(c *gin.Context) {
	limit := httpkit.QueryInt(c, "limit", defaultLimit, 1, maxLimit)
	activities, err := m.store.ListActivities(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activities)
}

var _ apphttp.Module = (*Module)(nil)
