package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	defaultHeadline    = "Transform Your Business Today"
	defaultSubheadline = "Discover how our solutions can help you achieve your goals."
	defaultCTA         = "Get Started"
	siteInstruction    = "You are a conversion copywriting expert. Create high-converting website content."
)

// SiteSection is one block of landing page copy.
type SiteSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SiteContent is generated landing page copy.
type SiteContent struct {
	Headline    string        `json:"headline"`
	Subheadline string        `json:"subheadline"`
	CTAText     string        `json:"ctaText"`
	Sections    []SiteSection `json:"sections"`
}

// SiteBrief is the input for site content generation.
type SiteBrief struct {
	Industry       string
	TargetAudience string
	Goals          []string
}

// DefaultSiteContent is the copy used when no model output is available.
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Headline:    defaultHeadline,
		Subheadline: defaultSubheadline,
		CTAText:     defaultCTA,
		Sections:    []SiteSection{},
	}
}

// SiteContentGenerator writes landing page copy with the LLM.
type SiteContentGenerator struct {
	gen TextGenerator
}

func NewSiteContentGenerator(gen TextGenerator) *SiteContentGenerator {
	return &SiteContentGenerator{gen: gen}
}

// SiteContentAgentConfig is the agent definition for NewSiteContentGenerator.
func SiteContentAgentConfig() AgentConfig {
	return AgentConfig{
		Name:        "SiteCopywriter",
		Description: "Writes conversion-focused landing page copy.",
		Instruction: siteInstruction,
		Temperature: 0.6,
		JSON:        true,
	}
}

// GenerateSiteContent returns an error when the model fails; missing fields
// in a valid reply take default values.
func (g *SiteContentGenerator) GenerateSiteContent(ctx context.Context, brief SiteBrief) (SiteContent, error) {
	prompt := fmt.Sprintf(`Generate website content for:
Industry: %s
Target Audience: %s
Goals: %s

Create compelling, conversion-focused content. Respond with JSON in this format:
{
  "headline": "Compelling main headline",
  "subheadline": "Supporting subheadline",
  "ctaText": "Call-to-action button text",
  "sections": [
    {"title": "Section title", "content": "Section content"}
  ]
}`, brief.Industry, brief.TargetAudience, strings.Join(brief.Goals, ", "))

	raw, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return SiteContent{}, err
	}

	var content SiteContent
	if err := decodeReply(raw, &content); err != nil {
		return SiteContent{}, err
	}
	content.Headline = orDefault(content.Headline, defaultHeadline)
	content.Subheadline = orDefault(content.Subheadline, defaultSubheadline)
	content.CTAText = orDefault(content.CTAText, defaultCTA)
	if content.Sections == nil {
		content.Sections = []SiteSection{}
	}
	return content, nil
}

// StaticSiteContent returns the default copy for every brief.
type StaticSiteContent struct{}

func (StaticSiteContent) GenerateSiteContent(context.Context, SiteBrief) (SiteContent, error) {
	return DefaultSiteContent(), nil
}
