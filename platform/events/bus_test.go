package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"outbound_ai_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	calls := 0
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	}))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if calls != 2 {
		t.Fatalf("expected both handlers to run, got %d", calls)
	}
}

func TestPublishRunsHandlersAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	done := make(chan struct{})
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		close(done)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestNewBaseEventStampsIDAndTime(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()
	if a.ID == b.ID {
		t.Fatal("expected distinct event ids")
	}
	if a.OccurredAt().IsZero() || a.OccurredAt().Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", a.OccurredAt())
	}
}
