package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"heyjarvis_backend/platform/logger"
)

// LocalScheduler runs completions on in-process timers. Pending completions
// are lost on restart.
type LocalScheduler struct {
	mu        sync.Mutex
	timers    map[string]*time.Timer
	completer WorkflowCompleter
	log       *logger.Logger
	wg        sync.WaitGroup
}

func NewLocalScheduler(log *logger.Logger) *LocalScheduler {
	return &LocalScheduler{
		timers: make(map[string]*time.Timer),
		log:    log,
	}
}

// Bind sets the completer. The engine needs the scheduler at construction,
// so the two are joined after both exist.
func (s *LocalScheduler) Bind(completer WorkflowCompleter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completer = completer
}

func (s *LocalScheduler) ScheduleCompletion(_ context.Context, taskID string, workflowID int64, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completer == nil {
		return errors.New("local scheduler has no completer")
	}
	if _, exists := s.timers[taskID]; exists {
		return nil
	}

	completer := s.completer
	s.wg.Add(1)
	s.timers[taskID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.timers, taskID)
		s.mu.Unlock()

		if err := completer.CompleteScheduledWorkflow(context.Background(), workflowID); err != nil {
			s.log.Error("scheduler: workflow completion failed", "workflowId", workflowID, "error", err)
		}
	})
	return nil
}

func (s *LocalScheduler) CancelCompletion(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[taskID]
	if !ok {
		return nil
	}
	if timer.Stop() {
		s.wg.Done()
	}
	delete(s.timers, taskID)
	return nil
}

// Pending returns the number of completions waiting to fire.
func (s *LocalScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close stops pending timers and waits for running completions.
func (s *LocalScheduler) Close() {
	s.mu.Lock()
	for id, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
