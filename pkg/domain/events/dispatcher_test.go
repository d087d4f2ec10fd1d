package events

import (
	"context"
	"errors"
	"testing"
)

func TestEventDispatcher_RoutesByType(t *testing.T) {
	d := NewEventDispatcher()

	var validated, wildcard int
	d.RegisterHandler("validated", func(ctx context.Context, event DomainEvent) error {
		validated++
		return nil
	}, EventTypeAssetValidated)
	d.RegisterWildcard("all", func(ctx context.Context, event DomainEvent) error {
		wildcard++
		return nil
	})

	if !d.HasHandlers(EventTypeBatchCompleted) {
		t.Error("wildcard should count as a handler")
	}

	ctx := context.Background()
	if err := d.Dispatch(ctx, newEvent(EventTypeAssetValidated, "a.png", nil)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := d.Dispatch(ctx, newEvent(EventTypeBatchCompleted, "run-1", nil)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if validated != 1 {
		t.Errorf("validated handler called %d times, want 1", validated)
	}
	if wildcard != 2 {
		t.Errorf("wildcard handler called %d times, want 2", wildcard)
	}
}

func TestEventDispatcher_RunsAllHandlersOnError(t *testing.T) {
	d := NewEventDispatcher()
	boom := errors.New("boom")

	second := false
	d.RegisterHandler("first", func(ctx context.Context, event DomainEvent) error {
		return boom
	}, EventTypeFallbackUsed)
	d.RegisterHandler("second", func(ctx context.Context, event DomainEvent) error {
		second = true
		return nil
	}, EventTypeFallbackUsed)

	err := d.Dispatch(context.Background(), NewFallbackUsed("a.png", "openai:gpt-4o", errors.New("timeout")))
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to wrap boom, got %v", err)
	}
	if !second {
		t.Error("second handler should still run")
	}
}

func TestEventDispatcher_NilIsNoop(t *testing.T) {
	var d *EventDispatcher
	if err := d.Dispatch(context.Background(), newEvent(EventTypeAssetValidated, "x", nil)); err != nil {
		t.Errorf("nil dispatcher should be a no-op, got %v", err)
	}
}
