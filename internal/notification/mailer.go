package notification

import (
	"context"
	"sync"
	"time"

	"heyjarvis_backend/internal/email"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/logger"
)

const mailTimeout = 30 * time.Second

// ApprovalMailer mails high and urgent approval requests to one address.
type ApprovalMailer struct {
	sender       email.Sender
	to           string
	dashboardURL string
	log          *logger.Logger
	wg           sync.WaitGroup
}

// NewApprovalMailer returns nil when there is no recipient.
func NewApprovalMailer(sender email.Sender, to, dashboardURL string, log *logger.Logger) *ApprovalMailer {
	if sender == nil || to == "" {
		return nil
	}
	return &ApprovalMailer{sender: sender, to: to, dashboardURL: dashboardURL, log: log}
}

// Notify mails the approval carried by an approval_created event in the
// background. Other events and low priorities are ignored.
func (m *ApprovalMailer) Notify(ctx context.Context, event Event) {
	if event.Type != TypeApprovalCreated {
		return
	}
	approval, ok := event.Data.(repository.Approval)
	if !ok || !approval.Priority.Escalated() {
		return
	}

	req := email.ApprovalRequest{
		ApprovalID:   approval.ID,
		Title:        approval.Title,
		Priority:     string(approval.Priority),
		Type:         approval.Type,
		RequestedBy:  approval.RequestedBy,
		DashboardURL: m.dashboardURL,
	}
	if approval.Description != nil {
		req.Description = *approval.Description
	}

	sendCtx := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		mailCtx, cancel := context.WithTimeout(sendCtx, mailTimeout)
		defer cancel()
		if err := m.sender.SendApprovalRequest(mailCtx, m.to, req); err != nil {
			m.log.WithContext(sendCtx).Error("notification: approval mail failed", "approvalId", approval.ID, "error", err)
			return
		}
		m.log.WithContext(sendCtx).Info("notification: approval mail sent", "approvalId", approval.ID)
	}()
}

// Wait blocks until queued mails are sent.
func (m *ApprovalMailer) Wait() {
	m.wg.Wait()
}
