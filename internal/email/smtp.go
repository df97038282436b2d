package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"heyjarvis_backend/platform/config"
)

const fromName = "HeyJarvis"

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewSender returns an SMTP sender when SMTP is configured and a NoopSender
// otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetSMTPFrom(), fromName)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendApprovalRequest(ctx context.Context, toEmail string, req ApprovalRequest) error {
	content, err := RenderApprovalRequest(req)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectApprovalRequestFmt, strings.ToUpper(req.Priority), req.Title)
	return s.send(ctx, toEmail, subject, content)
}

// RenderApprovalRequest renders the HTML body of an approval request mail.
func RenderApprovalRequest(req ApprovalRequest) (string, error) {
	return renderEmailTemplate("approval_request.html", approvalRequestEmailData{
		baseEmailData: baseEmailData{
			Title:    req.Title,
			Heading:  req.Title,
			CTALabel: "Review in dashboard",
			CTAURL:   req.DashboardURL,
		},
		Description: req.Description,
		Priority:    req.Priority,
		Type:        req.Type,
		RequestedBy: req.RequestedBy,
	})
}
