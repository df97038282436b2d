package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

const insightsInstruction = "You are a marketing intelligence expert. Provide actionable insights from competitive data."

// MarketingInsights is the model's read of competitor data.
type MarketingInsights struct {
	Insights         []string `json:"insights"`
	Recommendations  []string `json:"recommendations"`
	OpportunityScore int      `json:"opportunityScore"`
}

// InsightsGenerator analyses competitor data with the LLM.
type InsightsGenerator struct {
	gen TextGenerator
}

func NewInsightsGenerator(gen TextGenerator) *InsightsGenerator {
	return &InsightsGenerator{gen: gen}
}

// InsightsAgentConfig is the agent definition for NewInsightsGenerator.
func InsightsAgentConfig() AgentConfig {
	return AgentConfig{
		Name:        "MarketingAnalyst",
		Description: "Turns competitor data into marketing insights.",
		Instruction: insightsInstruction,
		Temperature: 0.5,
		JSON:        true,
	}
}

func (g *InsightsGenerator) GenerateInsights(ctx context.Context, competitors []map[string]any) (MarketingInsights, error) {
	payload, err := json.Marshal(competitors)
	if err != nil {
		return MarketingInsights{}, fmt.Errorf("encode competitor data: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this competitor data and provide marketing insights:
%s

Provide actionable insights and recommendations. Respond with JSON in this format:
{
  "insights": ["Key insight 1", "Key insight 2", "Key insight 3"],
  "recommendations": ["Actionable recommendation 1", "Actionable recommendation 2"],
  "opportunityScore": 85
}`, payload)

	raw, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return MarketingInsights{}, err
	}

	var out MarketingInsights
	if err := decodeReply(raw, &out); err != nil {
		return MarketingInsights{}, err
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	if out.OpportunityScore == 0 {
		out.OpportunityScore = 50
	}
	return out, nil
}
