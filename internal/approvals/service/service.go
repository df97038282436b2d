// Package service resolves approval requests raised by the orchestration
// engine and hands the decision back to it through the event bus.
package service

import (
	"context"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/sanitize"
)

const defaultListLimit = 50

type Service struct {
	store    repository.ApprovalStore
	bus      events.Bus
	notifier notification.Sink
	log      *logger.Logger
}

func New(store repository.ApprovalStore, bus events.Bus, notifier notification.Sink, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Service{store: store, bus: bus, notifier: notifier, log: log}
}

func (s *Service) List(ctx context.Context, status *domain.ApprovalStatus, limit int) ([]repository.Approval, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.ListApprovals(ctx, repository.ApprovalFilter{Status: status, Limit: limit})
}

func (s *Service) Pending(ctx context.Context) ([]repository.Approval, error) {
	status := domain.ApprovalPending
	return s.store.ListApprovals(ctx, repository.ApprovalFilter{Status: &status})
}

func (s *Service) GetByID(ctx context.Context, id int64) (repository.Approval, error) {
	return s.store.GetApproval(ctx, id)
}

func (s *Service) Approve(ctx context.Context, id int64, approvedBy string) (repository.Approval, error) {
	return s.resolve(ctx, repository.ResolveApprovalParams{
		ID:         id,
		Status:     domain.ApprovalApproved,
		ResolvedBy: sanitize.Text(approvedBy),
	})
}

// Reject records the decision and, when given, the reason as
// data.rejectionReason.
func (s *Service) Reject(ctx context.Context, id int64, rejectedBy, reason string) (repository.Approval, error) {
	params := repository.ResolveApprovalParams{
		ID:         id,
		Status:     domain.ApprovalRejected,
		ResolvedBy: sanitize.Text(rejectedBy),
	}
	if reason = sanitize.Text(reason); reason != "" {
		params.ExtraData = repository.JSON{"rejectionReason": reason}
	}
	return s.resolve(ctx, params)
}

func (s *Service) resolve(ctx context.Context, params repository.ResolveApprovalParams) (repository.Approval, error) {
	approval, err := s.store.ResolveApproval(ctx, params)
	if err != nil {
		return repository.Approval{}, err
	}

	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeApprovalUpdated, Data: approval})
	s.log.WithContext(ctx).Info("approvals: resolved", "approvalId", approval.ID, "type", approval.Type, "status", string(approval.Status))

	// The decision is already stored; a failing continuation is logged and
	// surfaces as a failed workflow, not as a failed resolution.
	if err := s.bus.PublishSync(ctx, events.ApprovalResolved{
		BaseEvent:  events.NewBaseEvent(),
		ApprovalID: approval.ID,
		Type:       approval.Type,
		Status:     string(approval.Status),
		ResolvedBy: params.ResolvedBy,
		Data:       approval.Data,
	}); err != nil {
		s.log.WithContext(ctx).Error("approvals: continuation failed", "approvalId", approval.ID, "error", err)
	}
	return approval, nil
}
