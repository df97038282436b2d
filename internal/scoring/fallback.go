// Package scoring rates leads 1-100. A primary scorer (normally the LLM) is
// tried first; any failure falls back to a deterministic heuristic.
package scoring

import (
	"context"
	"strings"

	"heyjarvis_backend/internal/domain"
)

// FallbackReasoning is recorded for every lead scored by the heuristic.
const FallbackReasoning = "Fallback scoring due to AI service unavailability"

const baseScore = 50

var (
	companySuffixes = []string{"inc", "corp", "ltd"}

	// titleTiers are evaluated in order; the first tier with a matching
	// keyword wins.
	titleTiers = []struct {
		keywords []string
		bonus    int
	}{
		{keywords: []string{"ceo", "founder", "president"}, bonus: 20},
		{keywords: []string{"vp", "director", "head"}, bonus: 15},
		{keywords: []string{"manager", "lead"}, bonus: 10},
	}
)

// LeadFacts are the inputs a scorer sees. Empty strings mean absent.
type LeadFacts struct {
	LeadID         int64  `json:"-"`
	Name           string `json:"name"`
	Company        string `json:"company"`
	Title          string `json:"title"`
	RecentActivity string `json:"recentActivity,omitempty"`
}

// ScoredLead is a scorer's verdict for one lead.
type ScoredLead struct {
	LeadFacts
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// Scorer scores a batch of leads. Results correspond to inputs by position;
// a scorer may return fewer results than inputs.
type Scorer interface {
	ScoreLeads(ctx context.Context, leads []LeadFacts) ([]ScoredLead, error)
}

// FallbackScore applies the deterministic heuristic to one lead.
func FallbackScore(lead LeadFacts) int {
	score := baseScore

	if lead.Company != "" {
		score += 10
		company := strings.ToLower(lead.Company)
		if containsAny(company, companySuffixes) {
			score += 10
		}
	}

	if lead.Title != "" {
		title := strings.ToLower(lead.Title)
		for _, tier := range titleTiers {
			if containsAny(title, tier.keywords) {
				score += tier.bonus
				break
			}
		}
	}

	if lead.RecentActivity != "" {
		score += 15
	}

	return domain.ClampScore(score)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Fallback is a Scorer backed only by the heuristic. It never fails.
type Fallback struct{}

func (Fallback) ScoreLeads(_ context.Context, leads []LeadFacts) ([]ScoredLead, error) {
	return fallbackAll(leads), nil
}

func fallbackAll(leads []LeadFacts) []ScoredLead {
	out := make([]ScoredLead, len(leads))
	for i, lead := range leads {
		out[i] = ScoredLead{
			LeadFacts: lead,
			Score:     FallbackScore(lead),
			Reasoning: FallbackReasoning,
		}
	}
	return out
}

var _ Scorer = Fallback{}
