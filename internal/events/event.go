// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"heyjarvis_backend/platform/events"
	"heyjarvis_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadsImported is published after a batch of leads was created.
type LeadsImported struct {
	BaseEvent
	LeadIDs []int64 `json:"leadIds"`
	Source  string  `json:"source"`
}

func (e LeadsImported) EventName() string { return "leads.imported" }

// =============================================================================
// Approval Domain Events
// =============================================================================

// ApprovalResolved is published when a pending approval is approved or rejected.
type ApprovalResolved struct {
	BaseEvent
	ApprovalID int64          `json:"approvalId"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	ResolvedBy string         `json:"resolvedBy"`
	Data       map[string]any `json:"data"`
}

func (e ApprovalResolved) EventName() string { return "approvals.resolved" }

// =============================================================================
// Campaign Domain Events
// =============================================================================

// CampaignCompleted is published when an outreach campaign reports its results.
type CampaignCompleted struct {
	BaseEvent
	CampaignID int64          `json:"campaignId"`
	Results    map[string]any `json:"results"`
}

func (e CampaignCompleted) EventName() string { return "campaigns.completed" }

// BudgetThresholdReached is published when a marketing campaign's spend first
// crosses its alert ratio.
type BudgetThresholdReached struct {
	BaseEvent
	CampaignID   int64   `json:"campaignId"`
	CurrentSpend float64 `json:"currentSpend"`
	Threshold    float64 `json:"threshold"`
}

func (e BudgetThresholdReached) EventName() string { return "campaigns.budget_threshold_reached" }

// =============================================================================
// Site Domain Events
// =============================================================================

// SiteGenerated is published after a site's content was generated and stored.
type SiteGenerated struct {
	BaseEvent
	SiteID   int64  `json:"siteId"`
	Industry string `json:"industry"`
}

func (e SiteGenerated) EventName() string { return "sites.generated" }
