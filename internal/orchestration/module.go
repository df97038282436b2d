package orchestration

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/events"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/platform/httpkit"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Module exposes the engine to the event bus and to operators over HTTP.
type Module struct {
	engine *Engine
	val    *validator.Validator
	log    *logger.Logger
}

// NewModule creates the orchestration module around an engine.
func NewModule(engine *Engine, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{engine: engine, val: val, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orchestration"
}

// Engine returns the trigger engine for use by other modules.
func (m *Module) Engine() *Engine {
	return m.engine
}

// RegisterRoutes mounts the raw trigger endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/orchestration/triggers", m.DispatchTrigger)
}

// RegisterHandlers subscribes the engine to the domain events that start
// orchestration work.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadsImported{}.EventName(), m)
	bus.Subscribe(events.ApprovalResolved{}.EventName(), m)
	bus.Subscribe(events.CampaignCompleted{}.EventName(), m)
	bus.Subscribe(events.BudgetThresholdReached{}.EventName(), m)
	bus.Subscribe(events.SiteGenerated{}.EventName(), m)
}

// Handle routes events to the matching trigger.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadsImported:
		return m.engine.StartLeadImportWorkflow(ctx, e.LeadIDs)
	case events.ApprovalResolved:
		return m.handleApprovalResolved(ctx, e)
	case events.CampaignCompleted:
		return m.engine.CompleteCampaign(ctx, e.CampaignID, e.Results)
	case events.BudgetThresholdReached:
		return m.engine.Dispatch(ctx, Trigger{
			Domain:  string(domain.DomainMarketing),
			Payload: BudgetThresholdReached{CampaignID: e.CampaignID, CurrentSpend: e.CurrentSpend, Threshold: e.Threshold},
		})
	case events.SiteGenerated:
		return m.engine.Dispatch(ctx, Trigger{
			Domain:  string(domain.DomainEngineering),
			Payload: SiteGenerated{SiteID: e.SiteID, Industry: e.Industry},
		})
	default:
		return nil
	}
}

// handleApprovalResolved continues the lead chain when an outreach campaign
// approval is granted. Other approvals need no follow-up.
func (m *Module) handleApprovalResolved(ctx context.Context, e events.ApprovalResolved) error {
	if e.Type != domain.ApprovalTypeOutreachCampaign || e.Status != string(domain.ApprovalApproved) {
		return nil
	}
	leadIDs := int64Slice(e.Data["leadIds"])
	if len(leadIDs) == 0 {
		m.log.WithContext(ctx).Warn("orchestration: approved campaign carries no leads", "approvalId", e.ApprovalID)
		return nil
	}
	campaignType, _ := e.Data["campaignType"].(string)
	return m.engine.ApproveLead(ctx, leadIDs, campaignType)
}

// int64Slice reads an id list from approval data, which holds either Go
// slices or decoded JSON numbers depending on the store.
func int64Slice(v any) []int64 {
	switch ids := v.(type) {
	case []int64:
		return ids
	case []any:
		out := make([]int64, 0, len(ids))
		for _, raw := range ids {
			switch n := raw.(type) {
			case float64:
				out = append(out, int64(n))
			case int64:
				out = append(out, n)
			case int:
				out = append(out, int64(n))
			case json.Number:
				if id, err := n.Int64(); err == nil {
					out = append(out, id)
				}
			}
		}
		return out
	default:
		return nil
	}
}

type dispatchTriggerRequest struct {
	Type   string          `json:"type" validate:"required,max=100"`
	Domain string          `json:"domain" validate:"omitempty,max=50"`
	Data   json.RawMessage `json:"data"`
}

// DispatchTrigger runs a trigger supplied by an operator.
// POST /api/v1/orchestration/triggers
func (m *Module) DispatchTrigger(c *gin.Context) {
	var req dispatchTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := m.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	trigger, err := ParseTrigger(req.Type, req.Domain, req.Data)
	if httpkit.HandleError(c, err) {
		return
	}
	if httpkit.HandleError(c, m.engine.Dispatch(c.Request.Context(), trigger)) {
		return
	}

	_, recognized := trigger.Payload.(Unrecognized)
	httpkit.JSON(c, http.StatusAccepted, gin.H{
		"type":       req.Type,
		"domain":     trigger.Domain,
		"recognized": !recognized,
	})
}

var _ apphttp.Module = (*Module)(nil)
