package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"heyjarvis_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	var order []int
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers in subscription order, got %v", order)
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return errA }))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return errB }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
}

func TestPublishRunsAsyncAndSurvivesCancellation(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	var calls atomic.Int32
	var sawCancelled atomic.Bool
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
		calls.Add(1)
		if ctx.Err() != nil {
			sawCancelled.Store(true)
		}
		return errors.New("logged, not returned")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
	if sawCancelled.Load() {
		t.Fatal("expected handler context to be detached from caller cancellation")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
	if err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewBaseEventAssignsUniqueIDs(t *testing.T) {
	a, b := pingEvent{BaseEvent: NewBaseEvent()}, pingEvent{BaseEvent: NewBaseEvent()}

	if eventID(a) == "" || eventID(a) == eventID(b) {
		t.Fatalf("expected distinct event ids, got %q and %q", eventID(a), eventID(b))
	}
	if a.OccurredAt().IsZero() || a.OccurredAt().Location() != time.UTC {
		t.Fatalf("expected a UTC timestamp, got %v", a.OccurredAt())
	}
}
