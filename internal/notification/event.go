package notification

import "context"

// Event types pushed to dashboard subscribers.
const (
	TypeWorkflowCreated  = "workflow_created"
	TypeWorkflowUpdated  = "workflow_updated"
	TypeApprovalCreated  = "approval_created"
	TypeApprovalUpdated  = "approval_updated"
	TypeActivityCreated  = "activity_created"
	TypeLeadCreated      = "lead_created"
	TypeLeadsImported    = "leads_imported"
	TypeLeadsScored      = "leads_scored"
	TypeLeadUpdated      = "lead_updated"
	TypeCampaignUpdated  = "campaign_updated"
	TypeSiteGenerated    = "site_generated"
)

// Event is one "something changed" message. Data is the changed record or a
// small summary of it.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Sink receives events. Delivery is fire-and-forget: Notify never blocks on
// slow subscribers and reports nothing back.
type Sink interface {
	Notify(ctx context.Context, event Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
