package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/platform/apperr"
)

// ErrNotScheduled is returned when a workflow has no pending deferred
// completion to cancel.
var ErrNotScheduled = errors.New("workflow has no scheduled completion")

const cancelledReason = "cancelled"

// CompletionTaskID is the scheduler task id owned by a workflow.
func CompletionTaskID(workflowID int64) string {
	return fmt.Sprintf("workflow-completion-%d", workflowID)
}

// scheduleCompletion stores the cancellation handle on the workflow, then
// hands the completion to the scheduler. A scheduling failure ends the
// workflow as failed.
func (e *Engine) scheduleCompletion(ctx context.Context, wf repository.Workflow) error {
	if e.scheduler == nil {
		return e.failWorkflow(ctx, wf, errors.New("no scheduler configured"))
	}

	taskID := CompletionTaskID(wf.ID)
	if _, err := e.updateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{ScheduledTaskID: &taskID}); err != nil {
		return err
	}

	if err := e.scheduler.ScheduleCompletion(ctx, taskID, wf.ID, e.opts.ABTestDelay); err != nil {
		return e.failWorkflow(ctx, wf, fmt.Errorf("schedule completion: %w", err))
	}

	e.log.WithContext(ctx).Info("orchestration: completion scheduled", "workflowId", wf.ID, "taskId", taskID, "delay", e.opts.ABTestDelay)
	return nil
}

// CompleteScheduledWorkflow is the deferred continuation of an A/B test
// setup. A workflow that already reached a terminal state, for example
// because it was cancelled, is left alone. A paused workflow gets its
// completion scheduled again under a fresh task id.
func (e *Engine) CompleteScheduledWorkflow(ctx context.Context, workflowID int64) error {
	ctx = context.WithoutCancel(ctx)
	log := e.log.WithContext(ctx)

	wf, err := e.store.GetWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("orchestration: load workflow %d: %w", workflowID, err)
	}
	if wf.Status.Terminal() {
		log.Info("orchestration: scheduled completion skipped", "workflowId", workflowID, "status", string(wf.Status))
		return nil
	}
	if wf.Status == domain.WorkflowPaused {
		return e.deferCompletion(ctx, wf)
	}

	status := domain.WorkflowCompleted
	progress := 100
	_, err = e.updateWorkflow(ctx, workflowID, repository.UpdateWorkflowParams{
		Status:   &status,
		Progress: &progress,
		Results: toJSON(map[string]any{
			"testsCreated":     3,
			"expectedDuration": "2 weeks",
		}),
		ClearScheduledTask: true,
	})
	if apperr.Is(err, apperr.KindConflict) {
		latest, getErr := e.store.GetWorkflow(ctx, workflowID)
		if getErr == nil && latest.Status == domain.WorkflowPaused {
			return e.deferCompletion(ctx, latest)
		}
		log.Info("orchestration: scheduled completion lost race", "workflowId", workflowID)
		return nil
	}
	if err != nil {
		if failErr := e.failWorkflow(ctx, wf, err); failErr != nil {
			return errors.Join(err, failErr)
		}
		return err
	}

	log.Info("orchestration: scheduled workflow completed", "workflowId", workflowID)
	return nil
}

// deferCompletion re-arms the completion of a paused workflow one A/B delay
// later. The previous task has already fired, so a new id is used.
func (e *Engine) deferCompletion(ctx context.Context, wf repository.Workflow) error {
	if e.scheduler == nil {
		return fmt.Errorf("orchestration: defer completion of workflow %d: no scheduler configured", wf.ID)
	}
	taskID := fmt.Sprintf("%s-%d", CompletionTaskID(wf.ID), time.Now().UnixNano())
	if _, err := e.updateWorkflow(ctx, wf.ID, repository.UpdateWorkflowParams{ScheduledTaskID: &taskID}); err != nil {
		return err
	}
	if err := e.scheduler.ScheduleCompletion(ctx, taskID, wf.ID, e.opts.ABTestDelay); err != nil {
		return fmt.Errorf("orchestration: defer completion of workflow %d: %w", wf.ID, err)
	}
	e.log.WithContext(ctx).Info("orchestration: completion deferred while paused", "workflowId", wf.ID, "taskId", taskID, "delay", e.opts.ABTestDelay)
	return nil
}

// CancelScheduledCompletion withdraws a pending deferred completion and ends
// the workflow as failed with reason "cancelled".
func (e *Engine) CancelScheduledCompletion(ctx context.Context, workflowID int64) (repository.Workflow, error) {
	wf, err := e.store.GetWorkflow(ctx, workflowID)
	if err != nil {
		return repository.Workflow{}, err
	}
	if wf.Status.Terminal() || wf.ScheduledTaskID == nil || e.scheduler == nil {
		return repository.Workflow{}, apperr.Wrap(apperr.KindConflict, ErrNotScheduled.Error(), ErrNotScheduled)
	}

	if err := e.scheduler.CancelCompletion(ctx, *wf.ScheduledTaskID); err != nil {
		return repository.Workflow{}, apperr.Wrap(apperr.KindUnavailable, "could not cancel scheduled completion", err)
	}

	status := domain.WorkflowFailed
	updated, err := e.updateWorkflow(ctx, workflowID, repository.UpdateWorkflowParams{
		Status:             &status,
		Results:            repository.JSON{"error": cancelledReason},
		ClearScheduledTask: true,
	})
	if err != nil {
		return repository.Workflow{}, err
	}

	e.log.WithContext(ctx).Info("orchestration: scheduled completion cancelled", "workflowId", workflowID)
	return updated, nil
}
