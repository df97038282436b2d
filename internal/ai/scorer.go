package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"heyjarvis_backend/internal/scoring"
)

const leadScorerInstruction = "You are an expert sales lead scoring assistant. Always respond with valid JSON."

// LeadScorer scores leads with the LLM. It implements scoring.Scorer.
type LeadScorer struct {
	gen TextGenerator
}

func NewLeadScorer(gen TextGenerator) *LeadScorer {
	return &LeadScorer{gen: gen}
}

// LeadScorerAgentConfig is the agent definition for NewLeadScorer.
func LeadScorerAgentConfig() AgentConfig {
	return AgentConfig{
		Name:        "LeadScorer",
		Description: "Scores sales leads from 1 to 100 with a short rationale.",
		Instruction: leadScorerInstruction,
		Temperature: 0.3,
		JSON:        true,
	}
}

type scoreReply struct {
	ScoredLeads []struct {
		Name      string `json:"name"`
		Score     int    `json:"score"`
		Reasoning string `json:"reasoning"`
	} `json:"scoredLeads"`
}

func (s *LeadScorer) ScoreLeads(ctx context.Context, leads []scoring.LeadFacts) ([]scoring.ScoredLead, error) {
	payload, err := json.Marshal(leads)
	if err != nil {
		return nil, fmt.Errorf("encode leads: %w", err)
	}

	prompt := fmt.Sprintf(`Score each lead from 1-100 based on:
- Company size and industry relevance (40%%)
- Job title and decision-making authority (30%%)
- Recent activity and engagement potential (30%%)

For each lead, provide a score and brief reasoning. Keep the input order. Respond with JSON in this format:
{
  "scoredLeads": [
    {"name": "...", "score": 85, "reasoning": "High-value target: VP at growing tech company with recent expansion news"}
  ]
}

Leads to score: %s`, payload)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var reply scoreReply
	if err := decodeReply(raw, &reply); err != nil {
		return nil, err
	}
	if len(reply.ScoredLeads) == 0 {
		return nil, errors.New("model returned no scored leads")
	}

	out := make([]scoring.ScoredLead, 0, len(reply.ScoredLeads))
	for i, item := range reply.ScoredLeads {
		if i >= len(leads) {
			break
		}
		out = append(out, scoring.ScoredLead{
			LeadFacts: leads[i],
			Score:     item.Score,
			Reasoning: item.Reasoning,
		})
	}
	return out, nil
}

var _ scoring.Scorer = (*LeadScorer)(nil)
