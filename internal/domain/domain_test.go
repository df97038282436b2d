package domain

import "testing"

func TestWorkflowTransitions(t *testing.T) {
	tests := []struct {
		from WorkflowStatus
		to   WorkflowStatus
		ok   bool
	}{
		{WorkflowPending, WorkflowRunning, true},
		{WorkflowRunning, WorkflowCompleted, true},
		{WorkflowRunning, WorkflowFailed, true},
		{WorkflowRunning, WorkflowPaused, true},
		{WorkflowPaused, WorkflowRunning, true},
		{WorkflowRunning, WorkflowRunning, true},
		{WorkflowCompleted, WorkflowRunning, false},
		{WorkflowFailed, WorkflowCompleted, false},
		{WorkflowCompleted, WorkflowCompleted, false},
		{WorkflowPending, WorkflowCompleted, false},
		{WorkflowPaused, WorkflowCompleted, false},
	}

	for _, tt := range tests {
		err := ValidateTransition(tt.from, tt.to)
		if (err == nil) != tt.ok {
			t.Fatalf("%s -> %s: expected ok=%v, got err=%v", tt.from, tt.to, tt.ok, err)
		}
	}
}

func TestValidateTransitionRejectsUnknownStatus(t *testing.T) {
	if err := ValidateTransition(WorkflowRunning, WorkflowStatus("archived")); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestBucketForPartitionsEveryScore(t *testing.T) {
	counts := map[ScoreBucket]int{}
	for score := MinScore; score <= MaxScore; score++ {
		counts[BucketFor(score)]++
	}
	if counts[BucketHigh] != 21 || counts[BucketMedium] != 30 || counts[BucketLow] != 49 {
		t.Fatalf("unexpected bucket sizes: %v", counts)
	}

	boundaries := map[int]ScoreBucket{49: BucketLow, 50: BucketMedium, 79: BucketMedium, 80: BucketHigh}
	for score, want := range boundaries {
		if got := BucketFor(score); got != want {
			t.Fatalf("BucketFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if ClampScore(105) != 100 || ClampScore(0) != 1 || ClampScore(64) != 64 {
		t.Fatal("clamp out of range")
	}
}

func TestIsHighScore(t *testing.T) {
	high, low := 80, 79
	if !IsHighScore(&high) || IsHighScore(&low) || IsHighScore(nil) {
		t.Fatal("unexpected high score classification")
	}
}

func TestPriorityEscalated(t *testing.T) {
	if !PriorityHigh.Escalated() || !PriorityUrgent.Escalated() || PriorityMedium.Escalated() {
		t.Fatal("unexpected escalation")
	}
}
