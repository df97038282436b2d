package scheduler

import (
	"context"
	"fmt"

	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	completer WorkflowCompleter
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, completer WorkflowCompleter, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		completer: completer,
		log:       log,
	}

	mux.HandleFunc(TaskWorkflowCompletion, w.handleWorkflowCompletion)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleWorkflowCompletion(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWorkflowCompletionPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.WorkflowID <= 0 {
		return fmt.Errorf("%w: missing workflow id", asynq.SkipRetry)
	}

	if err := w.completer.CompleteScheduledWorkflow(ctx, payload.WorkflowID); err != nil {
		w.log.Error("scheduler: workflow completion failed", "workflowId", payload.WorkflowID, "error", err)
		return err
	}
	return nil
}
