package scoring

import (
	"context"
	"fmt"
	"maps"
	"time"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
)

// ReasoningKey is where the scorer's rationale is kept in a lead's raw data.
const ReasoningKey = "scoringReasoning"

// LeadStore is the subset of the record store the scoring service needs.
type LeadStore interface {
	GetLead(ctx context.Context, id int64) (repository.Lead, error)
	UpdateLead(ctx context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error)
	LeadScores(ctx context.Context) ([]int, error)
}

// Distribution counts scored leads per bucket. Unscored leads are not counted.
type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Service runs the scoring subroutine against stored leads.
type Service struct {
	store   LeadStore
	primary Scorer
	timeout time.Duration
	log     *logger.Logger
}

// NewService creates a scoring service. primary may be nil, in which case
// every lead is scored by the heuristic. timeout bounds a primary call; zero
// means no bound.
func NewService(store LeadStore, primary Scorer, timeout time.Duration, log *logger.Logger) *Service {
	return &Service{store: store, primary: primary, timeout: timeout, log: log}
}

// ScoreLeadsFromData scores the given facts. It never fails: an error from
// the primary scorer switches the whole batch to the heuristic.
func (s *Service) ScoreLeadsFromData(ctx context.Context, leads []LeadFacts) []ScoredLead {
	if len(leads) == 0 {
		return []ScoredLead{}
	}
	if s.primary == nil {
		return fallbackAll(leads)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	scored, err := s.primary.ScoreLeads(callCtx, leads)
	if err != nil {
		s.log.Warn("scoring: primary scorer failed, using fallback", "error", err, "leads", len(leads))
		return fallbackAll(leads)
	}

	for i := range scored {
		scored[i].Score = domain.ClampScore(scored[i].Score)
		if i < len(leads) {
			scored[i].LeadID = leads[i].LeadID
		}
	}
	return scored
}

// ScoreExistingLeads scores stored leads and writes each score and its
// reasoning back. Ids that do not resolve are skipped.
func (s *Service) ScoreExistingLeads(ctx context.Context, leadIDs []int64) ([]ScoredLead, error) {
	leads := make([]repository.Lead, 0, len(leadIDs))
	for _, id := range leadIDs {
		lead, err := s.store.GetLead(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scoring: load lead %d: %w", id, err)
		}
		leads = append(leads, lead)
	}

	facts := make([]LeadFacts, len(leads))
	for i, lead := range leads {
		facts[i] = FactsFromLead(lead)
	}

	scored := s.ScoreLeadsFromData(ctx, facts)

	for i, lead := range leads {
		if i >= len(scored) {
			break
		}
		raw := make(repository.JSON, len(lead.RawData)+1)
		maps.Copy(raw, lead.RawData)
		raw[ReasoningKey] = scored[i].Reasoning

		score := scored[i].Score
		if _, err := s.store.UpdateLead(ctx, lead.ID, repository.UpdateLeadParams{
			Score:   &score,
			RawData: raw,
		}); err != nil {
			return nil, fmt.Errorf("scoring: update lead %d: %w", lead.ID, err)
		}
	}

	s.log.Info("scoring: leads scored", "requested", len(leadIDs), "scored", min(len(leads), len(scored)))
	return scored, nil
}

// Distribution classifies every scored lead into exactly one bucket.
func (s *Service) Distribution(ctx context.Context) (Distribution, error) {
	scores, err := s.store.LeadScores(ctx)
	if err != nil {
		return Distribution{}, fmt.Errorf("scoring: load scores: %w", err)
	}
	return Classify(scores), nil
}

// Classify buckets scores.
func Classify(scores []int) Distribution {
	var d Distribution
	for _, score := range scores {
		switch domain.BucketFor(score) {
		case domain.BucketHigh:
			d.High++
		case domain.BucketMedium:
			d.Medium++
		default:
			d.Low++
		}
	}
	return d
}

// FactsFromLead projects a stored lead onto scorer input.
func FactsFromLead(lead repository.Lead) LeadFacts {
	return LeadFacts{
		LeadID:         lead.ID,
		Name:           lead.Name,
		Company:        deref(lead.Company),
		Title:          deref(lead.Title),
		RecentActivity: deref(lead.RecentActivity),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
