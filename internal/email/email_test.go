package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderApprovalRequest(t *testing.T) {
	html, err := RenderApprovalRequest(ApprovalRequest{
		ApprovalID:   4,
		Title:        "Budget Threshold Reached",
		Description:  "Campaign 7 has reached 75% of budget",
		Priority:     "high",
		Type:         "budget_increase",
		RequestedBy:  "system",
		DashboardURL: "http://localhost:5173/approvals",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Budget Threshold Reached", "75% of budget", "budget_increase", "http://localhost:5173/approvals"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered mail missing %q", want)
		}
	}
}

func TestRenderApprovalRequestEscapesDescription(t *testing.T) {
	html, err := RenderApprovalRequest(ApprovalRequest{Title: "T", Description: "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("description was not escaped")
	}
}

func TestNoopSender(t *testing.T) {
	if err := (NoopSender{}).SendApprovalRequest(context.Background(), "a@b.c", ApprovalRequest{}); err != nil {
		t.Fatalf("noop sender returned %v", err)
	}
}
