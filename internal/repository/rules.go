package repository

import (
	"maps"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/platform/apperr"
)

func checkScore(score *int) error {
	if score != nil && !domain.ValidScore(*score) {
		return apperr.Validation(invalidScoreMsg)
	}
	return nil
}

func checkWorkflowTransition(current domain.WorkflowStatus, next *domain.WorkflowStatus) error {
	if next == nil {
		return nil
	}
	if err := domain.ValidateTransition(current, *next); err != nil {
		return apperr.Wrap(apperr.KindConflict, "invalid workflow status change", err)
	}
	return nil
}

// checkScheduledPause refuses to pause a workflow that still owns a deferred
// completion. The completion would fire into the paused state.
func checkScheduledPause(scheduledTaskID *string, next *domain.WorkflowStatus) error {
	if next != nil && *next == domain.WorkflowPaused && scheduledTaskID != nil {
		return apperr.Conflict(scheduledPauseMsg)
	}
	return nil
}

func checkResolution(status domain.ApprovalStatus) error {
	if !status.Resolution() {
		return apperr.Validation(invalidResolutionMsg)
	}
	return nil
}

func clampProgress(p int) int {
	return max(0, min(100, p))
}

func mergeJSON(base, extra JSON) JSON {
	if len(extra) == 0 {
		return base
	}
	out := make(JSON, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

// cloneJSON deep-copies maps and slices so callers cannot mutate stored state.
func cloneJSON(m JSON) JSON {
	if m == nil {
		return nil
	}
	out := make(JSON, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneJSON(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []int64:
		return append([]int64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func ptr[T any](v T) *T { return &v }
