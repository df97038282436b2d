// Package dashboard aggregates the headline numbers shown on the dashboard.
package dashboard

import (
	"context"
	"math"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"heyjarvis_backend/internal/domain"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/platform/httpkit"
)

// Store is the subset of the record store the dashboard reads.
type Store interface {
	CountWorkflows(ctx context.Context, status domain.WorkflowStatus) (int, error)
	CountApprovals(ctx context.Context, status domain.ApprovalStatus) (int, error)
	CountLeadsByStatus(ctx context.Context) (map[domain.LeadStatus]int, error)
}

type Stats struct {
	ActiveWorkflows  int     `json:"activeWorkflows"`
	PendingApprovals int     `json:"pendingApprovals"`
	GeneratedLeads   int     `json:"generatedLeads"`
	ConversionRate   float64 `json:"conversionRate"`
}

type Module struct {
	store Store
}

func NewModule(store Store) *Module {
	return &Module{store: store}
}

func (m *Module) Name() string {
	return "dashboard"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/dashboard/stats", m.GetStats)
}

// GET /api/v1/dashboard/stats
func (m *Module) GetStats(c *gin.Context) {
	stats, err := m.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// Stats counts running workflows, pending approvals and leads. The conversion
// rate is the share of contacted leads in percent, rounded to one decimal.
func (m *Module) Stats(ctx context.Context) (Stats, error) {
	var (
		stats      Stats
		leadCounts map[domain.LeadStatus]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := m.store.CountWorkflows(gctx, domain.WorkflowRunning)
		stats.ActiveWorkflows = n
		return err
	})
	g.Go(func() error {
		n, err := m.store.CountApprovals(gctx, domain.ApprovalPending)
		stats.PendingApprovals = n
		return err
	})
	g.Go(func() error {
		counts, err := m.store.CountLeadsByStatus(gctx)
		leadCounts = counts
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	for _, n := range leadCounts {
		stats.GeneratedLeads += n
	}
	if stats.GeneratedLeads > 0 {
		rate := float64(leadCounts[domain.LeadStatusContacted]) / float64(stats.GeneratedLeads) * 100
		stats.ConversionRate = math.Round(rate*10) / 10
	}
	return stats, nil
}

var _ apphttp.Module = (*Module)(nil)
