package repository

import (
	"context"

	"heyjarvis_backend/internal/domain"
)

const (
	leadNotFoundMsg      = "lead not found"
	workflowNotFoundMsg  = "workflow not found"
	approvalNotFoundMsg  = "approval not found"
	campaignNotFoundMsg  = "campaign not found"
	siteNotFoundMsg      = "site not found"
	approvalResolvedMsg  = "approval already resolved"
	campaignCompletedMsg = "campaign already completed"
	scheduledPauseMsg    = "workflow has a scheduled completion; cancel it instead of pausing"
	invalidScoreMsg      = "score must be between 1 and 100"
	invalidResolutionMsg = "approval can only be approved or rejected"
)

// LeadStore persists leads.
type LeadStore interface {
	CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetLead(ctx context.Context, id int64) (Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error)
	UpdateLead(ctx context.Context, id int64, params UpdateLeadParams) (Lead, error)
	DeleteLead(ctx context.Context, id int64) error
	CountLeadsByStatus(ctx context.Context) (map[domain.LeadStatus]int, error)
	// LeadScores returns the score of every scored lead.
	LeadScores(ctx context.Context) ([]int, error)
}

// WorkflowStore persists workflows.
type WorkflowStore interface {
	CreateWorkflow(ctx context.Context, params CreateWorkflowParams) (Workflow, error)
	GetWorkflow(ctx context.Context, id int64) (Workflow, error)
	ListWorkflows(ctx context.Context, filter WorkflowFilter) ([]Workflow, error)
	UpdateWorkflow(ctx context.Context, id int64, params UpdateWorkflowParams) (Workflow, error)
	CountWorkflows(ctx context.Context, status domain.WorkflowStatus) (int, error)
}

// ApprovalStore persists approvals.
type ApprovalStore interface {
	CreateApproval(ctx context.Context, params CreateApprovalParams) (Approval, error)
	GetApproval(ctx context.Context, id int64) (Approval, error)
	ListApprovals(ctx context.Context, filter ApprovalFilter) ([]Approval, error)
	// ResolveApproval moves a pending approval to approved or rejected. It
	// fails with a conflict if the approval was already resolved.
	ResolveApproval(ctx context.Context, params ResolveApprovalParams) (Approval, error)
	CountApprovals(ctx context.Context, status domain.ApprovalStatus) (int, error)
}

// ActivityStore appends and reads the activity log.
type ActivityStore interface {
	CreateActivity(ctx context.Context, params CreateActivityParams) (Activity, error)
	ListActivities(ctx context.Context, limit int) ([]Activity, error)
}

// CampaignStore persists outreach and marketing campaigns.
type CampaignStore interface {
	CreateOutreachCampaign(ctx context.Context, params CreateOutreachCampaignParams) (OutreachCampaign, error)
	GetOutreachCampaign(ctx context.Context, id int64) (OutreachCampaign, error)
	ListOutreachCampaigns(ctx context.Context) ([]OutreachCampaign, error)
	// CompleteOutreachCampaign marks the campaign completed and stores its
	// results. It fails with a conflict if the campaign was already completed.
	CompleteOutreachCampaign(ctx context.Context, id int64, results JSON) (OutreachCampaign, error)
	CreateMarketingCampaign(ctx context.Context, params CreateMarketingCampaignParams) (MarketingCampaign, error)
	GetMarketingCampaign(ctx context.Context, id int64) (MarketingCampaign, error)
	ListMarketingCampaigns(ctx context.Context) ([]MarketingCampaign, error)
	SetMarketingSpend(ctx context.Context, id int64, spent float64) (SpendUpdate, error)
}

// SiteStore persists generated sites.
type SiteStore interface {
	CreateSite(ctx context.Context, params CreateSiteParams) (GeneratedSite, error)
	GetSite(ctx context.Context, id int64) (GeneratedSite, error)
	ListSites(ctx context.Context) ([]GeneratedSite, error)
	UpdateSite(ctx context.Context, id int64, params UpdateSiteParams) (GeneratedSite, error)
}

// Store combines every collection.
type Store interface {
	LeadStore
	WorkflowStore
	ApprovalStore
	ActivityStore
	CampaignStore
	SiteStore
	Ping(ctx context.Context) error
}
