// Package service exposes workflow records to operators: listing, manual
// creation, status changes and cancellation of deferred completions.
package service

import (
	"context"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/workflows/transport"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/sanitize"
)

const defaultListLimit = 50

// Canceller cancels a pending deferred completion and fails the workflow.
type Canceller interface {
	CancelScheduledCompletion(ctx context.Context, workflowID int64) (repository.Workflow, error)
}

type Service struct {
	store     repository.WorkflowStore
	canceller Canceller
	notifier  notification.Sink
	log       *logger.Logger
}

func New(store repository.WorkflowStore, canceller Canceller, notifier notification.Sink, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Service{store: store, canceller: canceller, notifier: notifier, log: log}
}

func (s *Service) List(ctx context.Context, req transport.ListWorkflowsRequest) ([]repository.Workflow, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.ListWorkflows(ctx, repository.WorkflowFilter{Status: req.Status, Limit: limit})
}

// Active returns the running workflows.
func (s *Service) Active(ctx context.Context) ([]repository.Workflow, error) {
	status := domain.WorkflowRunning
	return s.store.ListWorkflows(ctx, repository.WorkflowFilter{Status: &status})
}

func (s *Service) GetByID(ctx context.Context, id int64) (repository.Workflow, error) {
	return s.store.GetWorkflow(ctx, id)
}

func (s *Service) Create(ctx context.Context, req transport.CreateWorkflowRequest) (repository.Workflow, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return repository.Workflow{}, apperr.Validation("name must not be empty")
	}
	params := repository.CreateWorkflowParams{
		Name:        name,
		Description: sanitize.TextPtr(req.Description),
		Domain:      req.Domain,
		Type:        req.Type,
		Config:      req.Config,
		TotalSteps:  req.TotalSteps,
	}
	if req.Status != nil {
		params.Status = *req.Status
	}

	wf, err := s.store.CreateWorkflow(ctx, params)
	if err != nil {
		return repository.Workflow{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeWorkflowCreated, Data: wf})
	s.log.WithContext(ctx).Info("workflows: created", "workflowId", wf.ID, "type", wf.Type)
	return wf, nil
}

// Update applies a partial update. Status changes follow the workflow
// transition rules; terminal workflows cannot be reopened.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateWorkflowRequest) (repository.Workflow, error) {
	wf, err := s.store.UpdateWorkflow(ctx, id, repository.UpdateWorkflowParams{
		Status:   req.Status,
		Progress: req.Progress,
		Results:  req.Results,
	})
	if err != nil {
		return repository.Workflow{}, err
	}
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeWorkflowUpdated, Data: wf})
	return wf, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (repository.Workflow, error) {
	return s.canceller.CancelScheduledCompletion(ctx, id)
}
