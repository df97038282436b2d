// Package service holds the lead use cases: import, CRUD, status changes and
// manual scoring.
package service

import (
	"context"
	"fmt"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/leads/transport"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/sanitize"
	"heyjarvis_backend/platform/validator"
)

const defaultListLimit = 50

// Scorer is the scoring subroutine used by the manual scoring endpoint.
type Scorer interface {
	ScoreExistingLeads(ctx context.Context, leadIDs []int64) ([]scoring.ScoredLead, error)
	Distribution(ctx context.Context) (scoring.Distribution, error)
}

type Service struct {
	store    repository.LeadStore
	scorer   Scorer
	bus      events.Bus
	notifier notification.Sink
	val      *validator.Validator
	log      *logger.Logger
}

func New(store repository.LeadStore, scorer Scorer, bus events.Bus, notifier notification.Sink, val *validator.Validator, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Service{store: store, scorer: scorer, bus: bus, notifier: notifier, val: val, log: log}
}

// Import creates every valid lead of the batch and starts scoring for the
// created ones. Invalid leads are reported, not fatal.
func (s *Service) Import(ctx context.Context, req transport.ImportLeadsRequest) (transport.ImportLeadsResponse, error) {
	if len(req.Leads) == 0 {
		return transport.ImportLeadsResponse{}, apperr.BadRequest("no leads provided")
	}
	if !req.Source.Valid() {
		return transport.ImportLeadsResponse{}, apperr.Validation("unknown lead source")
	}

	created := make([]repository.Lead, 0, len(req.Leads))
	importErrors := make([]transport.ImportError, 0)

	for _, input := range req.Leads {
		if err := s.val.Struct(input); err != nil {
			importErrors = append(importErrors, transport.ImportError{Lead: input, Error: err.Error()})
			continue
		}
		lead, err := s.store.CreateLead(ctx, repository.CreateLeadParams{
			Source:         req.Source,
			Name:           sanitize.Text(input.Name),
			Company:        sanitize.TextPtr(input.Company),
			Title:          sanitize.TextPtr(input.Title),
			Email:          input.Email,
			ProfileURL:     input.ProfileURL,
			RecentActivity: sanitize.TextPtr(input.RecentActivity),
			RawData:        input.RawData,
		})
		if apperr.Is(err, apperr.KindValidation) {
			importErrors = append(importErrors, transport.ImportError{Lead: input, Error: err.Error()})
			continue
		}
		if err != nil {
			return transport.ImportLeadsResponse{}, fmt.Errorf("leads: import: %w", err)
		}
		created = append(created, lead)
	}

	if len(created) > 0 {
		ids := make([]int64, len(created))
		for i, lead := range created {
			ids[i] = lead.ID
		}
		// Scoring runs before the response so the import reflects its outcome.
		if err := s.bus.PublishSync(ctx, events.LeadsImported{
			BaseEvent: events.NewBaseEvent(),
			LeadIDs:   ids,
			Source:    string(req.Source),
		}); err != nil {
			s.log.WithContext(ctx).Error("leads: import orchestration failed", "leads", len(ids), "error", err)
		}
	}

	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeLeadsImported, Data: map[string]any{
		"imported": len(created),
		"errors":   len(importErrors),
		"source":   req.Source,
	}})

	s.log.WithContext(ctx).Info("leads: imported", "source", string(req.Source), "imported", len(created), "errors", len(importErrors))

	return transport.ImportLeadsResponse{
		Success:      true,
		Imported:     len(created),
		Errors:       len(importErrors),
		Leads:        created,
		ImportErrors: importErrors,
	}, nil
}

func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (repository.Lead, error) {
	lead, err := s.store.CreateLead(ctx, repository.CreateLeadParams{
		Source:         req.Source,
		Name:           sanitize.Text(req.Name),
		Company:        sanitize.TextPtr(req.Company),
		Title:          sanitize.TextPtr(req.Title),
		Email:          req.Email,
		ProfileURL:     req.ProfileURL,
		RecentActivity: sanitize.TextPtr(req.RecentActivity),
		Score:          req.Score,
		RawData:        req.RawData,
	})
	if err != nil {
		return repository.Lead{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeLeadCreated, Data: lead})
	return lead, nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) ([]repository.Lead, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.ListLeads(ctx, repository.LeadFilter{Status: req.Status, Limit: limit, Offset: req.Offset})
}

func (s *Service) GetByID(ctx context.Context, id int64) (repository.Lead, error) {
	return s.store.GetLead(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateLeadRequest) (repository.Lead, error) {
	params := repository.UpdateLeadParams{
		Company:        sanitize.TextPtr(req.Company),
		Title:          sanitize.TextPtr(req.Title),
		Email:          req.Email,
		ProfileURL:     req.ProfileURL,
		RecentActivity: sanitize.TextPtr(req.RecentActivity),
		Score:          req.Score,
		Status:         req.Status,
		RawData:        req.RawData,
	}
	if req.Name != nil {
		name := sanitize.Text(*req.Name)
		if name == "" {
			return repository.Lead{}, apperr.Validation("name must not be empty")
		}
		params.Name = &name
	}

	lead, err := s.store.UpdateLead(ctx, id, params)
	if err != nil {
		return repository.Lead{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeLeadUpdated, Data: lead})
	return lead, nil
}

// SetStatus moves a lead to approved, rejected or contacted.
func (s *Service) SetStatus(ctx context.Context, id int64, status domain.LeadStatus) (repository.Lead, error) {
	if !status.Valid() {
		return repository.Lead{}, apperr.Validation("invalid lead status")
	}
	return s.Update(ctx, id, transport.UpdateLeadRequest{Status: &status})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteLead(ctx, id)
}

// Score runs the scoring subroutine on stored leads without starting a
// workflow.
func (s *Service) Score(ctx context.Context, req transport.ScoreLeadsRequest) (transport.ScoreLeadsResponse, error) {
	if len(req.LeadIDs) == 0 {
		return transport.ScoreLeadsResponse{}, apperr.BadRequest("no lead ids provided")
	}
	scored, err := s.scorer.ScoreExistingLeads(ctx, req.LeadIDs)
	if err != nil {
		return transport.ScoreLeadsResponse{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeLeadsScored, Data: map[string]any{"leadIds": req.LeadIDs}})
	return transport.ScoreLeadsResponse{
		Success: true,
		Message: fmt.Sprintf("Scored %d leads", len(req.LeadIDs)),
		Scored:  scored,
	}, nil
}

func (s *Service) Distribution(ctx context.Context) (scoring.Distribution, error) {
	return s.scorer.Distribution(ctx)
}

func (s *Service) Stats(ctx context.Context) (transport.LeadStatsResponse, error) {
	counts, err := s.store.CountLeadsByStatus(ctx)
	if err != nil {
		return transport.LeadStatsResponse{}, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return transport.LeadStatsResponse{
		Total:     total,
		Pending:   counts[domain.LeadStatusPending],
		Approved:  counts[domain.LeadStatusApproved],
		Contacted: counts[domain.LeadStatusContacted],
	}, nil
}
