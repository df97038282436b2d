package orchestration

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"heyjarvis_backend/internal/ai"
	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
)

func (e *Engine) handleLeadImported(ctx context.Context, p LeadImported, depth int) error {
	description := fmt.Sprintf("Scoring %d newly imported leads", len(p.LeadIDs))
	wf, err := e.createWorkflow(ctx, repository.CreateWorkflowParams{
		Name:        "Auto Lead Scoring",
		Description: &description,
		Domain:      domain.DomainSales,
		Type:        domain.WorkflowTypeLeadScoring,
		Status:      domain.WorkflowRunning,
		Config:      toJSON(map[string]any{"leadIds": p.LeadIDs}),
		TotalSteps:  2,
	})
	if err != nil {
		return err
	}

	callCtx, cancel := e.externalCtx(ctx)
	_, err = e.scorer.ScoreExistingLeads(callCtx, p.LeadIDs)
	cancel()
	if err != nil {
		return e.failWorkflow(ctx, wf, err)
	}

	if err := e.completeWorkflow(ctx, wf.ID, toJSON(map[string]any{"scoredLeads": len(p.LeadIDs)})); err != nil {
		return err
	}

	// Scores are read back from the store rather than taken from the scorer
	// so concurrent edits to a lead are respected.
	leads, err := e.resolveLeads(ctx, p.LeadIDs)
	if err != nil {
		return err
	}
	highScore := make([]int64, 0, len(leads))
	for _, lead := range leads {
		if domain.IsHighScore(lead.Score) {
			highScore = append(highScore, lead.ID)
		}
	}
	if len(highScore) == 0 {
		return nil
	}

	return e.chain(ctx, domain.DomainSales, LeadScored{HighScoreLeadIDs: highScore}, depth)
}

func (e *Engine) handleLeadScored(ctx context.Context, p LeadScored) error {
	leads, err := e.resolveLeads(ctx, p.HighScoreLeadIDs)
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		return nil
	}

	ids := make([]int64, len(leads))
	names := make([]string, len(leads))
	total := 0
	for i, lead := range leads {
		ids[i] = lead.ID
		names[i] = lead.Name
		if lead.Score != nil {
			total += *lead.Score
		}
	}
	average := float64(total) / float64(len(leads))

	description := fmt.Sprintf("%d high-scoring leads ready for outreach campaign", len(leads))
	return e.createApproval(ctx, repository.CreateApprovalParams{
		Title:       "High-Value Lead Outreach",
		Description: &description,
		Type:        domain.ApprovalTypeOutreachCampaign,
		Priority:    domain.PriorityHigh,
		RequestedBy: domain.SystemActor,
		Data: toJSON(map[string]any{
			"leadIds":      ids,
			"leadNames":    names,
			"averageScore": average,
		}),
	})
}

// outreachDraft pairs a generated message with its lead.
type outreachDraft struct {
	LeadID  int64              `json:"leadId"`
	Message ai.OutreachMessage `json:"message"`
}

func (e *Engine) handleLeadApproved(ctx context.Context, p LeadApproved) error {
	description := fmt.Sprintf("Generating personalized messages for %d approved leads", len(p.LeadIDs))
	wf, err := e.createWorkflow(ctx, repository.CreateWorkflowParams{
		Name:        "Outreach Message Generation",
		Description: &description,
		Domain:      domain.DomainSales,
		Type:        domain.WorkflowTypeOutreachGeneration,
		Status:      domain.WorkflowRunning,
		Config:      toJSON(map[string]any{"leadIds": p.LeadIDs, "campaignType": p.CampaignType}),
		TotalSteps:  3,
	})
	if err != nil {
		return err
	}

	leads, err := e.resolveLeads(ctx, p.LeadIDs)
	if err != nil {
		return e.failWorkflow(ctx, wf, err)
	}

	drafts, err := e.generateDrafts(ctx, leads)
	if err != nil {
		return e.failWorkflow(ctx, wf, err)
	}

	if err := e.completeWorkflow(ctx, wf.ID, toJSON(map[string]any{"generatedMessages": len(drafts)})); err != nil {
		return err
	}

	readyDescription := fmt.Sprintf("%d personalized messages generated and ready to send", len(drafts))
	return e.createApproval(ctx, repository.CreateApprovalParams{
		Title:       "Outreach Messages Ready",
		Description: &readyDescription,
		Type:        domain.ApprovalTypeOutreachSend,
		Priority:    domain.PriorityMedium,
		RequestedBy: domain.SystemActor,
		WorkflowID:  &wf.ID,
		Data:        toJSON(map[string]any{"messages": drafts}),
	})
}

// generateDrafts writes one message per lead with at most
// OutreachConcurrency calls in flight. Results keep the input order and the
// first failure cancels the rest.
func (e *Engine) generateDrafts(ctx context.Context, leads []repository.Lead) ([]outreachDraft, error) {
	drafts := make([]outreachDraft, len(leads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.OutreachConcurrency)

	for i, lead := range leads {
		g.Go(func() error {
			callCtx, cancel := e.externalCtx(gctx)
			defer cancel()
			msg, err := e.messages.GenerateMessage(callCtx, scoring.FactsFromLead(lead))
			if err != nil {
				return fmt.Errorf("generate message for lead %d: %w", lead.ID, err)
			}
			drafts[i] = outreachDraft{LeadID: lead.ID, Message: msg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (e *Engine) handleCampaignCompleted(ctx context.Context, p CampaignCompleted, depth int) error {
	if err := e.chain(ctx, domain.DomainMarketing, ConversionDetected{CampaignResults: p.Results}, depth); err != nil {
		return err
	}
	target := fmt.Sprintf("Campaign %d", p.CampaignID)
	return e.logActivity(ctx, "Campaign completed", &target, domain.DomainSales, toJSON(p.Results))
}

func (e *Engine) handleBudgetThreshold(ctx context.Context, p BudgetThresholdReached) error {
	percent := math.Round(p.CurrentSpend / p.Threshold * 100)
	description := fmt.Sprintf("Campaign %d has reached %.0f%% of budget", p.CampaignID, percent)
	return e.createApproval(ctx, repository.CreateApprovalParams{
		Title:       "Budget Threshold Reached",
		Description: &description,
		Type:        domain.ApprovalTypeBudgetIncrease,
		Priority:    domain.PriorityHigh,
		RequestedBy: domain.SystemActor,
		Data: toJSON(map[string]any{
			"campaignId":          p.CampaignID,
			"currentSpend":        p.CurrentSpend,
			"threshold":           p.Threshold,
			"recommendedIncrease": p.Threshold * 0.5,
		}),
	})
}

func (e *Engine) handleSiteGenerated(ctx context.Context, p SiteGenerated) error {
	description := fmt.Sprintf("Setting up A/B tests for generated site %d", p.SiteID)
	wf, err := e.createWorkflow(ctx, repository.CreateWorkflowParams{
		Name:        "A/B Testing Setup",
		Description: &description,
		Domain:      domain.DomainEngineering,
		Type:        domain.WorkflowTypeABTesting,
		Status:      domain.WorkflowRunning,
		Config:      toJSON(map[string]any{"siteId": p.SiteID, "industry": p.Industry}),
		TotalSteps:  4,
	})
	if err != nil {
		return err
	}
	return e.scheduleCompletion(ctx, wf)
}

func (e *Engine) handleConversionDetected(ctx context.Context, p ConversionDetected) error {
	target := "High-performing campaign elements"
	return e.logActivity(ctx, "Conversion optimization triggered", &target, domain.DomainEngineering, toJSON(p.CampaignResults))
}
