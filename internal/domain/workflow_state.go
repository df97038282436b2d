package domain

import "fmt"

// WorkflowStatus is the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowPending   WorkflowStatus = "pending"
	WorkflowRunning   WorkflowStatus = "running"
	WorkflowCompleted WorkflowStatus = "completed"
	WorkflowFailed    WorkflowStatus = "failed"
	WorkflowPaused    WorkflowStatus = "paused"
)

// workflowTransitions lists the allowed next states. Terminal states have no
// exits, so a completed or failed workflow can never be reopened.
var workflowTransitions = map[WorkflowStatus][]WorkflowStatus{
	WorkflowPending: {WorkflowRunning, WorkflowPaused, WorkflowFailed},
	WorkflowRunning: {WorkflowCompleted, WorkflowFailed, WorkflowPaused},
	WorkflowPaused:  {WorkflowRunning, WorkflowFailed},
}

func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowPending, WorkflowRunning, WorkflowCompleted, WorkflowFailed, WorkflowPaused:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowCompleted || s == WorkflowFailed
}

// CanTransition reports whether a workflow may move from s to next.
// Re-asserting the current non-terminal state is allowed so progress
// updates can carry the status unchanged.
func (s WorkflowStatus) CanTransition(next WorkflowStatus) bool {
	if s == next {
		return !s.Terminal()
	}
	for _, allowed := range workflowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error when s -> next is not allowed.
func ValidateTransition(current, next WorkflowStatus) error {
	if !next.Valid() {
		return fmt.Errorf("unknown workflow status %q", next)
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("workflow cannot move from %s to %s", current, next)
	}
	return nil
}
