package ai

import (
	"context"
	"fmt"

	"heyjarvis_backend/internal/scoring"
)

const (
	defaultOutreachSubject = "Partnership Opportunity"
	defaultOutreachBody    = "Hi there, I'd love to connect about potential synergies between our companies."
	outreachInstruction    = "You are an expert sales outreach specialist. Create compelling, personalized messages."
)

// OutreachMessage is a generated first-touch message.
type OutreachMessage struct {
	Subject              string   `json:"subject"`
	Body                 string   `json:"body"`
	PersonalizedElements []string `json:"personalizedElements"`
}

// DefaultOutreachMessage is the generic message used when no model output is
// available. reason is recorded as its only personalization element.
func DefaultOutreachMessage(reason string) OutreachMessage {
	elements := []string{}
	if reason != "" {
		elements = append(elements, reason)
	}
	return OutreachMessage{
		Subject:              defaultOutreachSubject,
		Body:                 defaultOutreachBody,
		PersonalizedElements: elements,
	}
}

// OutreachGenerator writes personalized outreach messages with the LLM.
type OutreachGenerator struct {
	gen TextGenerator
}

func NewOutreachGenerator(gen TextGenerator) *OutreachGenerator {
	return &OutreachGenerator{gen: gen}
}

// OutreachAgentConfig is the agent definition for NewOutreachGenerator.
func OutreachAgentConfig() AgentConfig {
	return AgentConfig{
		Name:        "OutreachWriter",
		Description: "Writes short personalized sales outreach messages.",
		Instruction: outreachInstruction,
		Temperature: 0.7,
		JSON:        true,
	}
}

// GenerateMessage returns an error when the model cannot be reached or its
// reply is not JSON. Missing fields fall back to the generic message.
func (g *OutreachGenerator) GenerateMessage(ctx context.Context, lead scoring.LeadFacts) (OutreachMessage, error) {
	prompt := fmt.Sprintf(`Generate a personalized outreach message for this lead:
Name: %s
Company: %s
Title: %s
Recent Activity: %s

Create a compelling, professional message that:
1. References something specific about their company/role
2. Offers clear value proposition
3. Includes a soft call-to-action
4. Keeps it under 150 words

Respond with JSON in this format:
{
  "subject": "Brief, compelling subject line",
  "body": "Personalized message body",
  "personalizedElements": ["List of specific personalization elements used"]
}`, lead.Name, lead.Company, lead.Title, orDefault(lead.RecentActivity, "None available"))

	raw, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return OutreachMessage{}, err
	}

	var msg OutreachMessage
	if err := decodeReply(raw, &msg); err != nil {
		return OutreachMessage{}, err
	}
	msg.Subject = orDefault(msg.Subject, defaultOutreachSubject)
	msg.Body = orDefault(msg.Body, defaultOutreachBody)
	if msg.PersonalizedElements == nil {
		msg.PersonalizedElements = []string{}
	}
	return msg, nil
}

// StaticOutreach returns the generic message for every lead. It stands in for
// the generator when no model is configured.
type StaticOutreach struct{}

func (StaticOutreach) GenerateMessage(context.Context, scoring.LeadFacts) (OutreachMessage, error) {
	return DefaultOutreachMessage("Generic outreach, no language model configured"), nil
}
