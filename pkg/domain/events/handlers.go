package events

import (
	"context"
	"log/slog"
)

// NewLoggingHandler logs every event at info level, and regeneration or fallback
// events at warn.
func NewLoggingHandler(logger *slog.Logger) EventHandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, event DomainEvent) error {
		level := slog.LevelInfo
		switch event.EventType() {
		case EventTypeRegenerationRequired, EventTypeFallbackUsed:
			level = slog.LevelWarn
		}

		attrs := []any{"event_type", event.EventType(), "subject", event.AggregateID()}
		if base, ok := event.(*BaseEvent); ok {
			for k, v := range base.Metadata {
				attrs = append(attrs, k, v)
			}
		}
		logger.Log(ctx, level, "event", attrs...)
		return nil
	}
}
