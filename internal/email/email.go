// Package email delivers approval request mails over SMTP.
package email

import "context"

// ApprovalRequest is the content of one approval request mail.
type ApprovalRequest struct {
	ApprovalID   int64
	Title        string
	Description  string
	Priority     string
	Type         string
	RequestedBy  string
	DashboardURL string
}

// Sender delivers approval request mails.
type Sender interface {
	SendApprovalRequest(ctx context.Context, toEmail string, req ApprovalRequest) error
}

// NoopSender drops every mail.
type NoopSender struct{}

func (NoopSender) SendApprovalRequest(context.Context, string, ApprovalRequest) error { return nil }
