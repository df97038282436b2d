package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWorkflowCompletion = "workflows.scheduled_completion"

type WorkflowCompletionPayload struct {
	WorkflowID int64 `json:"workflowId"`
}

func NewWorkflowCompletionTask(payload WorkflowCompletionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWorkflowCompletion, data), nil
}

func ParseWorkflowCompletionPayload(task *asynq.Task) (WorkflowCompletionPayload, error) {
	var payload WorkflowCompletionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WorkflowCompletionPayload{}, err
	}
	return payload, nil
}
