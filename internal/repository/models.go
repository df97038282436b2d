// Package repository is the record store for leads, workflows, approvals,
// activities, campaigns and generated sites. Identifiers are assigned by the
// store and increase monotonically per collection.
package repository

import (
	"time"

	"heyjarvis_backend/internal/domain"
)

// JSON is an opaque structured payload (config, results, metadata, raw data).
type JSON = map[string]any

// Lead is an imported prospect.
type Lead struct {
	ID             int64             `json:"id"`
	Source         domain.LeadSource `json:"source"`
	Name           string            `json:"name"`
	Company        *string           `json:"company"`
	Title          *string           `json:"title"`
	Email          *string           `json:"email"`
	ProfileURL     *string           `json:"profileUrl"`
	RecentActivity *string           `json:"recentActivity"`
	Score          *int              `json:"score"`
	Status         domain.LeadStatus `json:"status"`
	RawData        JSON              `json:"rawData"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type CreateLeadParams struct {
	Source         domain.LeadSource
	Name           string
	Company        *string
	Title          *string
	Email          *string
	ProfileURL     *string
	RecentActivity *string
	Score          *int
	Status         domain.LeadStatus
	RawData        JSON
}

// UpdateLeadParams holds a partial update. Nil fields are left unchanged.
type UpdateLeadParams struct {
	Name           *string
	Company        *string
	Title          *string
	Email          *string
	ProfileURL     *string
	RecentActivity *string
	Score          *int
	Status         *domain.LeadStatus
	RawData        JSON
}

type LeadFilter struct {
	Status *domain.LeadStatus
	Limit  int
	Offset int
}

// Workflow tracks one multi-step automated operation.
type Workflow struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	Description     *string               `json:"description"`
	Domain          domain.Domain         `json:"domain"`
	Type            string                `json:"type"`
	Status          domain.WorkflowStatus `json:"status"`
	Config          JSON                  `json:"config"`
	Progress        int                   `json:"progress"`
	TotalSteps      int                   `json:"totalSteps"`
	Results         JSON                  `json:"results"`
	ScheduledTaskID *string               `json:"scheduledTaskId,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

type CreateWorkflowParams struct {
	Name        string
	Description *string
	Domain      domain.Domain
	Type        string
	Status      domain.WorkflowStatus
	Config      JSON
	Progress    int
	TotalSteps  int
}

// UpdateWorkflowParams holds a partial update. Status changes are checked
// against the workflow transition rules.
type UpdateWorkflowParams struct {
	Status          *domain.WorkflowStatus
	Progress        *int
	Results         JSON
	ScheduledTaskID *string
	// ClearScheduledTask drops the stored cancellation handle.
	ClearScheduledTask bool
}

type WorkflowFilter struct {
	Status *domain.WorkflowStatus
	Limit  int
}

// Approval is a human decision gate.
type Approval struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	Type        string                `json:"type"`
	Priority    domain.Priority       `json:"priority"`
	Status      domain.ApprovalStatus `json:"status"`
	RequestedBy string                `json:"requestedBy"`
	WorkflowID  *int64                `json:"workflowId"`
	Data        JSON                  `json:"data"`
	ApprovedBy  *string               `json:"approvedBy"`
	ApprovedAt  *time.Time            `json:"approvedAt"`
	CreatedAt   time.Time             `json:"createdAt"`
}

type CreateApprovalParams struct {
	Title       string
	Description *string
	Type        string
	Priority    domain.Priority
	RequestedBy string
	WorkflowID  *int64
	Data        JSON
}

// ResolveApprovalParams moves a pending approval to its final status.
// ExtraData keys are merged into the approval's data.
type ResolveApprovalParams struct {
	ID         int64
	Status     domain.ApprovalStatus
	ResolvedBy string
	ExtraData  JSON
}

type ApprovalFilter struct {
	Status *domain.ApprovalStatus
	Limit  int
}

// Activity is an append-only audit log entry.
type Activity struct {
	ID        int64         `json:"id"`
	Action    string        `json:"action"`
	Target    *string       `json:"target"`
	Domain    domain.Domain `json:"domain"`
	UserID    *string       `json:"userId"`
	Metadata  JSON          `json:"metadata"`
	CreatedAt time.Time     `json:"createdAt"`
}

type CreateActivityParams struct {
	Action   string
	Target   *string
	Domain   domain.Domain
	UserID   *string
	Metadata JSON
}

// Outreach campaign statuses.
const (
	OutreachDraft     = "draft"
	OutreachSent      = "sent"
	OutreachCompleted = "completed"
)

type OutreachCampaign struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	LeadIDs   []int64    `json:"leadIds"`
	Message   *string    `json:"message"`
	Status    string     `json:"status"`
	SentAt    *time.Time `json:"sentAt"`
	Results   JSON       `json:"results"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CreateOutreachCampaignParams struct {
	Name    string
	LeadIDs []int64
	Message *string
}

// Marketing campaign statuses.
const (
	MarketingDraft     = "draft"
	MarketingActive    = "active"
	MarketingPaused    = "paused"
	MarketingCompleted = "completed"
)

type MarketingCampaign struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Budget         *float64  `json:"budget"`
	Spent          float64   `json:"spent"`
	Metrics        JSON      `json:"metrics"`
	TargetAudience JSON      `json:"targetAudience"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreateMarketingCampaignParams struct {
	Name           string
	Type           string
	Status         string
	Budget         *float64
	TargetAudience JSON
}

// SpendUpdate reports a marketing campaign after its spend changed, with the
// spend it replaced.
type SpendUpdate struct {
	Previous float64
	Campaign MarketingCampaign
}

// Generated site statuses.
const (
	SiteDraft     = "draft"
	SiteGenerated = "generated"
	SiteDeployed  = "deployed"
)

type GeneratedSite struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Industry   string    `json:"industry"`
	Template   string    `json:"template"`
	Content    JSON      `json:"content"`
	Domain     *string   `json:"domain"`
	Status     string    `json:"status"`
	ContentURL *string   `json:"contentUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateSiteParams struct {
	Name     string
	Industry string
	Template string
	Content  JSON
	Domain   *string
	Status   string
}

type UpdateSiteParams struct {
	Status     *string
	ContentURL *string
}
