package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"heyjarvis_backend/internal/scoring"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around object", in: "Here you go: {\"a\":1} hope it helps", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSON(tt.in); got != tt.want {
				t.Fatalf("cleanJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLeadScorerMapsRepliesByPosition(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"scoredLeads\":[{\"name\":\"Ada\",\"score\":91,\"reasoning\":\"CEO\"},{\"name\":\"Bob\",\"score\":40,\"reasoning\":\"junior\"}]}\n```"}
	scorer := NewLeadScorer(gen)

	got, err := scorer.ScoreLeads(context.Background(), []scoring.LeadFacts{
		{LeadID: 1, Name: "Ada", Title: "CEO"},
		{LeadID: 2, Name: "Bob"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].LeadID != 1 || got[0].Score != 91 || got[1].Reasoning != "junior" {
		t.Fatalf("unexpected result %+v", got)
	}
	if !strings.Contains(gen.lastPrompt, `"name":"Ada"`) {
		t.Fatalf("expected leads serialized into prompt, got %q", gen.lastPrompt)
	}
}

func TestLeadScorerErrorsOnUnusableReply(t *testing.T) {
	for _, reply := range []string{"not json", `{"scoredLeads":[]}`} {
		scorer := NewLeadScorer(&fakeGenerator{reply: reply})
		if _, err := scorer.ScoreLeads(context.Background(), []scoring.LeadFacts{{Name: "A"}}); err == nil {
			t.Fatalf("expected error for reply %q", reply)
		}
	}
}

func TestOutreachGeneratorDefaultsMissingFields(t *testing.T) {
	gen := NewOutreachGenerator(&fakeGenerator{reply: `{"body":"Hello Ada"}`})
	msg, err := gen.GenerateMessage(context.Background(), scoring.LeadFacts{Name: "Ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Subject != defaultOutreachSubject || msg.Body != "Hello Ada" || msg.PersonalizedElements == nil {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestOutreachGeneratorPropagatesModelFailure(t *testing.T) {
	gen := NewOutreachGenerator(&fakeGenerator{err: errors.New("timeout")})
	if _, err := gen.GenerateMessage(context.Background(), scoring.LeadFacts{Name: "Ada"}); err == nil {
		t.Fatal("expected model failure to surface")
	}
}

func TestOutreachPromptMentionsMissingActivity(t *testing.T) {
	fake := &fakeGenerator{reply: `{}`}
	if _, err := NewOutreachGenerator(fake).GenerateMessage(context.Background(), scoring.LeadFacts{Name: "Ada"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(fake.lastPrompt, "Recent Activity: None available") {
		t.Fatalf("expected placeholder activity in prompt, got %q", fake.lastPrompt)
	}
}

func TestSiteContentGeneratorDefaults(t *testing.T) {
	gen := NewSiteContentGenerator(&fakeGenerator{reply: `{"headline":"Grow faster"}`})
	content, err := gen.GenerateSiteContent(context.Background(), SiteBrief{Industry: "saas", Goals: []string{"leads", "demos"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Headline != "Grow faster" || content.CTAText != defaultCTA || content.Subheadline != defaultSubheadline {
		t.Fatalf("unexpected content %+v", content)
	}
}

func TestInsightsGeneratorDefaultsScore(t *testing.T) {
	gen := NewInsightsGenerator(&fakeGenerator{reply: `{"insights":["a"]}`})
	out, err := gen.GenerateInsights(context.Background(), []map[string]any{{"name": "rival"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OpportunityScore != 50 || len(out.Recommendations) != 0 || out.Insights[0] != "a" {
		t.Fatalf("unexpected insights %+v", out)
	}
}

func TestStaticFallbacks(t *testing.T) {
	msg, err := StaticOutreach{}.GenerateMessage(context.Background(), scoring.LeadFacts{})
	if err != nil || msg.Subject != defaultOutreachSubject {
		t.Fatalf("unexpected static outreach %+v, %v", msg, err)
	}
	content, err := StaticSiteContent{}.GenerateSiteContent(context.Background(), SiteBrief{})
	if err != nil || content.Headline != defaultHeadline {
		t.Fatalf("unexpected static content %+v, %v", content, err)
	}
}
