// Package orchestration reacts to domain triggers by creating workflows,
// approval requests and activity log entries, and by chaining follow-on
// triggers.
package orchestration

import (
	"encoding/json"
	"errors"
	"fmt"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/platform/apperr"
)

// Kind identifies a trigger type.
type Kind string

const (
	KindLeadImported           Kind = "lead_imported"
	KindLeadScored             Kind = "lead_scored"
	KindLeadApproved           Kind = "lead_approved"
	KindCampaignCompleted      Kind = "campaign_completed"
	KindBudgetThresholdReached Kind = "budget_threshold_reached"
	KindSiteGenerated          Kind = "site_generated"
	KindConversionDetected     Kind = "conversion_detected"
)

// DefaultCampaignType is used by ApproveLead when the caller names none.
const DefaultCampaignType = "outreach"

// ErrInvalidTrigger marks a trigger rejected before any record was written.
var ErrInvalidTrigger = errors.New("invalid trigger")

// Payload is the typed data of one trigger kind.
type Payload interface {
	Kind() Kind
	Validate() error
}

// Trigger is one unit of orchestration work. Domain is a free-form label
// used for logging and the activity target.
type Trigger struct {
	Domain  string
	Payload Payload
}

func invalid(format string, args ...any) error {
	return apperr.Wrap(apperr.KindValidation, fmt.Sprintf(format, args...), ErrInvalidTrigger)
}

func validateIDs(field string, ids []int64, required bool) error {
	if required && len(ids) == 0 {
		return invalid("%s must not be empty", field)
	}
	for _, id := range ids {
		if id <= 0 {
			return invalid("%s contains invalid id %d", field, id)
		}
	}
	return nil
}

// LeadImported starts scoring for freshly imported leads.
type LeadImported struct {
	LeadIDs []int64 `json:"leadIds"`
}

func (LeadImported) Kind() Kind { return KindLeadImported }

func (p LeadImported) Validate() error { return validateIDs("leadIds", p.LeadIDs, true) }

// LeadScored asks for an outreach decision on high-scoring leads. An empty
// list is allowed and produces nothing.
type LeadScored struct {
	HighScoreLeadIDs []int64 `json:"highScoreLeadIds"`
}

func (LeadScored) Kind() Kind { return KindLeadScored }

func (p LeadScored) Validate() error { return validateIDs("highScoreLeadIds", p.HighScoreLeadIDs, false) }

// LeadApproved generates outreach messages for approved leads.
type LeadApproved struct {
	LeadIDs      []int64 `json:"leadIds"`
	CampaignType string  `json:"campaignType"`
}

func (LeadApproved) Kind() Kind { return KindLeadApproved }

func (p LeadApproved) Validate() error {
	if err := validateIDs("leadIds", p.LeadIDs, true); err != nil {
		return err
	}
	if p.CampaignType == "" {
		return invalid("campaignType is required")
	}
	return nil
}

// CampaignCompleted records a finished outreach campaign.
type CampaignCompleted struct {
	CampaignID int64          `json:"campaignId"`
	Results    map[string]any `json:"results"`
}

func (CampaignCompleted) Kind() Kind { return KindCampaignCompleted }

func (p CampaignCompleted) Validate() error {
	if p.CampaignID <= 0 {
		return invalid("campaignId is required")
	}
	return nil
}

// BudgetThresholdReached requests a budget increase decision.
type BudgetThresholdReached struct {
	CampaignID   int64   `json:"campaignId"`
	CurrentSpend float64 `json:"currentSpend"`
	Threshold    float64 `json:"threshold"`
}

func (BudgetThresholdReached) Kind() Kind { return KindBudgetThresholdReached }

func (p BudgetThresholdReached) Validate() error {
	if p.CampaignID <= 0 {
		return invalid("campaignId is required")
	}
	if p.Threshold <= 0 {
		return invalid("threshold must be positive")
	}
	if p.CurrentSpend < 0 {
		return invalid("currentSpend must not be negative")
	}
	return nil
}

// SiteGenerated starts A/B test setup for a generated site.
type SiteGenerated struct {
	SiteID   int64  `json:"siteId"`
	Industry string `json:"industry"`
}

func (SiteGenerated) Kind() Kind { return KindSiteGenerated }

func (p SiteGenerated) Validate() error {
	if p.SiteID <= 0 {
		return invalid("siteId is required")
	}
	if p.Industry == "" {
		return invalid("industry is required")
	}
	return nil
}

// ConversionDetected logs a conversion optimization request.
type ConversionDetected struct {
	CampaignResults map[string]any `json:"campaignResults"`
}

func (ConversionDetected) Kind() Kind { return KindConversionDetected }

func (ConversionDetected) Validate() error { return nil }

// Unrecognized carries a trigger type outside the known set. It is logged
// as triggered and otherwise ignored.
type Unrecognized struct {
	Type string
	Data map[string]any
}

func (p Unrecognized) Kind() Kind { return Kind(p.Type) }

func (p Unrecognized) Validate() error {
	if p.Type == "" {
		return invalid("trigger type is required")
	}
	return nil
}

// ParseTrigger decodes a wire trigger. Unknown types become Unrecognized;
// malformed data for a known type is a validation error.
func ParseTrigger(triggerType, triggerDomain string, data json.RawMessage) (Trigger, error) {
	if triggerDomain == "" {
		triggerDomain = string(domain.DomainOrchestration)
	}
	if len(data) == 0 || string(data) == "null" {
		data = json.RawMessage("{}")
	}

	var payload Payload
	var err error
	switch Kind(triggerType) {
	case KindLeadImported:
		payload, err = decodePayload[LeadImported](data)
	case KindLeadScored:
		payload, err = decodePayload[LeadScored](data)
	case KindLeadApproved:
		payload, err = decodePayload[LeadApproved](data)
	case KindCampaignCompleted:
		payload, err = decodePayload[CampaignCompleted](data)
	case KindBudgetThresholdReached:
		payload, err = decodePayload[BudgetThresholdReached](data)
	case KindSiteGenerated:
		payload, err = decodePayload[SiteGenerated](data)
	case KindConversionDetected:
		payload, err = decodePayload[ConversionDetected](data)
	default:
		var raw any
		if err = json.Unmarshal(data, &raw); err == nil {
			payload = Unrecognized{Type: triggerType, Data: unrecognizedData(raw)}
		}
	}
	if err != nil {
		return Trigger{}, invalid("malformed %s data: %v", triggerType, err)
	}

	return Trigger{Domain: triggerDomain, Payload: payload}, nil
}

// unrecognizedData keeps non-object data under the "data" key so it still
// reaches the activity log.
func unrecognizedData(raw any) map[string]any {
	if m, ok := raw.(map[string]any); ok {
		return m
	}
	return map[string]any{"data": raw}
}

func decodePayload[T Payload](data json.RawMessage) (Payload, error) {
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}
