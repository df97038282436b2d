// Package events is the in-process bus that carries domain events from the
// modules that record them to the orchestration engine.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName is the subscription key, e.g. "leads.imported".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the id and time shared by all events. Embed it and
// build it with NewBaseEvent.
type BaseEvent struct {
	ID        string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() string { return e.ID }

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.NewString(), Timestamp: time.Now().UTC()}
}

// eventID returns the id of events that embed BaseEvent.
func eventID(event Event) string {
	if e, ok := event.(interface{ EventID() string }); ok {
		return e.EventID()
	}
	return ""
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe to the bus.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed under their name.
type Bus interface {
	// Publish runs the handlers in the background and logs their errors.
	Publish(ctx context.Context, event Event)
	// PublishSync runs the handlers in subscription order on the caller's
	// goroutine and returns their joined errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
