// Package events is the in-process event bus shared by the call modules.
// Event types themselves live in internal/events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every published event.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the fields common to all events. Embed it by value.
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a fresh event id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

// Handler reacts to a published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans events out to subscribers keyed by Event.EventName.
type Bus interface {
	// Publish returns immediately; handlers run in the background.
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
