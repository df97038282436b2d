// Package service manages outreach and marketing campaigns and raises the
// campaign events that drive the orchestration engine.
package service

import (
	"context"

	"heyjarvis_backend/internal/campaigns/transport"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/sanitize"
)

const defaultBudgetAlertRatio = 0.8

type Service struct {
	store      repository.CampaignStore
	bus        events.Bus
	notifier   notification.Sink
	alertRatio float64
	log        *logger.Logger
}

func New(store repository.CampaignStore, bus events.Bus, notifier notification.Sink, cfg config.CampaignConfig, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	ratio := defaultBudgetAlertRatio
	if cfg != nil && cfg.GetBudgetAlertRatio() > 0 {
		ratio = cfg.GetBudgetAlertRatio()
	}
	return &Service{store: store, bus: bus, notifier: notifier, alertRatio: ratio, log: log}
}

func (s *Service) ListOutreach(ctx context.Context) ([]repository.OutreachCampaign, error) {
	return s.store.ListOutreachCampaigns(ctx)
}

func (s *Service) CreateOutreach(ctx context.Context, req transport.CreateOutreachCampaignRequest) (repository.OutreachCampaign, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return repository.OutreachCampaign{}, apperr.Validation("name must not be empty")
	}
	campaign, err := s.store.CreateOutreachCampaign(ctx, repository.CreateOutreachCampaignParams{
		Name:    name,
		LeadIDs: req.LeadIDs,
		Message: req.Message,
	})
	if err != nil {
		return repository.OutreachCampaign{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeCampaignUpdated, Data: campaign})
	return campaign, nil
}

// CompleteOutreach stores the campaign results and starts the conversion
// follow-up. A campaign completes once.
func (s *Service) CompleteOutreach(ctx context.Context, id int64, results map[string]any) (repository.OutreachCampaign, error) {
	if results == nil {
		results = map[string]any{}
	}
	campaign, err := s.store.CompleteOutreachCampaign(ctx, id, results)
	if err != nil {
		return repository.OutreachCampaign{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeCampaignUpdated, Data: campaign})

	if err := s.bus.PublishSync(ctx, events.CampaignCompleted{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: campaign.ID,
		Results:    campaign.Results,
	}); err != nil {
		s.log.WithContext(ctx).Error("campaigns: completion follow-up failed", "campaignId", id, "error", err)
	}
	return campaign, nil
}

func (s *Service) ListMarketing(ctx context.Context) ([]repository.MarketingCampaign, error) {
	return s.store.ListMarketingCampaigns(ctx)
}

func (s *Service) CreateMarketing(ctx context.Context, req transport.CreateMarketingCampaignRequest) (repository.MarketingCampaign, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return repository.MarketingCampaign{}, apperr.Validation("name must not be empty")
	}
	campaign, err := s.store.CreateMarketingCampaign(ctx, repository.CreateMarketingCampaignParams{
		Name:           name,
		Type:           req.Type,
		Status:         req.Status,
		Budget:         req.Budget,
		TargetAudience: req.TargetAudience,
	})
	if err != nil {
		return repository.MarketingCampaign{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeCampaignUpdated, Data: campaign})
	return campaign, nil
}

// RecordSpend replaces the campaign's spend. When the spend first crosses
// budget*alertRatio a BudgetThresholdReached event is published with the
// budget as threshold.
func (s *Service) RecordSpend(ctx context.Context, id int64, spent float64) (repository.MarketingCampaign, bool, error) {
	if spent < 0 {
		return repository.MarketingCampaign{}, false, apperr.Validation("spent must not be negative")
	}
	update, err := s.store.SetMarketingSpend(ctx, id, spent)
	if err != nil {
		return repository.MarketingCampaign{}, false, err
	}
	campaign := update.Campaign
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeCampaignUpdated, Data: campaign})

	if !s.crossed(campaign.Budget, update.Previous, campaign.Spent) {
		return campaign, false, nil
	}

	s.log.WithContext(ctx).Info("campaigns: budget alert", "campaignId", id, "spent", campaign.Spent, "budget", *campaign.Budget)
	if err := s.bus.PublishSync(ctx, events.BudgetThresholdReached{
		BaseEvent:    events.NewBaseEvent(),
		CampaignID:   campaign.ID,
		CurrentSpend: campaign.Spent,
		Threshold:    *campaign.Budget,
	}); err != nil {
		s.log.WithContext(ctx).Error("campaigns: budget follow-up failed", "campaignId", id, "error", err)
	}
	return campaign, true, nil
}

func (s *Service) crossed(budget *float64, previous, current float64) bool {
	if budget == nil || *budget <= 0 {
		return false
	}
	limit := *budget * s.alertRatio
	return previous < limit && current >= limit
}
