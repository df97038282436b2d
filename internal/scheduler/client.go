// Package scheduler runs deferred workflow completions, through asynq when
// Redis is configured and with in-process timers otherwise.
package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"heyjarvis_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// WorkflowCompleter runs a workflow's deferred completion.
type WorkflowCompleter interface {
	CompleteScheduledWorkflow(ctx context.Context, workflowID int64) error
}

// Client enqueues completion tasks and withdraws them on cancellation.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return errors.Join(c.client.Close(), c.inspector.Close())
}

// ScheduleCompletion enqueues the completion under taskID. Scheduling the
// same task id twice is not an error.
func (c *Client) ScheduleCompletion(ctx context.Context, taskID string, workflowID int64, delay time.Duration) error {
	task, err := NewWorkflowCompletionTask(WorkflowCompletionPayload{WorkflowID: workflowID})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.ProcessIn(delay),
		asynq.Queue(c.queue),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// CancelCompletion deletes a pending task. A task that no longer exists has
// nothing left to cancel.
func (c *Client) CancelCompletion(_ context.Context, taskID string) error {
	err := c.inspector.DeleteTask(c.queue, taskID)
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return queue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
