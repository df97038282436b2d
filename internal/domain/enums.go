// Package domain provides the enumerations and business rules shared by the
// lead, workflow and approval bounded contexts.
package domain

// LeadSource is where a lead was imported from.
type LeadSource string

const (
	LeadSourceLinkedIn   LeadSource = "linkedin"
	LeadSourceCSV        LeadSource = "csv"
	LeadSourceGmail      LeadSource = "gmail"
	LeadSourceSalesforce LeadSource = "salesforce"
	LeadSourceHubSpot    LeadSource = "hubspot"
)

var leadSources = map[LeadSource]bool{
	LeadSourceLinkedIn:   true,
	LeadSourceCSV:        true,
	LeadSourceGmail:      true,
	LeadSourceSalesforce: true,
	LeadSourceHubSpot:    true,
}

func (s LeadSource) Valid() bool { return leadSources[s] }

// LeadStatus is the outreach state of a lead.
type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusApproved  LeadStatus = "approved"
	LeadStatusRejected  LeadStatus = "rejected"
	LeadStatusContacted LeadStatus = "contacted"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusPending, LeadStatusApproved, LeadStatusRejected, LeadStatusContacted:
		return true
	}
	return false
}

// Domain is a business area label. It routes and labels records; it is not
// an access boundary.
type Domain string

const (
	DomainSales         Domain = "sales"
	DomainMarketing     Domain = "marketing"
	DomainEngineering   Domain = "engineering"
	DomainOrchestration Domain = "orchestration"
)

func (d Domain) Valid() bool {
	switch d {
	case DomainSales, DomainMarketing, DomainEngineering, DomainOrchestration:
		return true
	}
	return false
}

// Priority of an approval request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Escalated reports whether the priority warrants an out-of-band notification.
func (p Priority) Escalated() bool {
	return p == PriorityHigh || p == PriorityUrgent
}

// ApprovalStatus is the decision state of an approval.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Resolution reports whether s is a valid outcome for a pending approval.
func (s ApprovalStatus) Resolution() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// Approval types raised by the orchestration engine.
const (
	ApprovalTypeOutreachCampaign = "outreach_campaign"
	ApprovalTypeOutreachSend     = "outreach_send"
	ApprovalTypeBudgetIncrease   = "budget_increase"
)

// Workflow types created by the orchestration engine.
const (
	WorkflowTypeLeadScoring        = "lead_scoring"
	WorkflowTypeOutreachGeneration = "outreach_generation"
	WorkflowTypeABTesting          = "ab_testing"
)

// SystemActor is the requestedBy/userId value for automated records.
const SystemActor = "system"
