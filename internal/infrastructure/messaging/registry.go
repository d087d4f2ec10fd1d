package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

// Registry creates messaging adapters from configuration.
type Registry struct {
	adapters []messaging.MessageAdapter
	configs  []messaging.AdapterConfig
}

// NewRegistry creates adapters from a MessagingConfig. Failed webhook deliveries are
// appended to deadLetter when it is non-nil.
func NewRegistry(config *messaging.MessagingConfig, deadLetter *DeadLetterStore) (*Registry, error) {
	if config == nil {
		return &Registry{}, nil
	}

	reg := &Registry{}
	for _, cfg := range config.Adapters {
		if !cfg.Enabled {
			continue
		}

		adapter, err := createAdapter(cfg, deadLetter)
		if err != nil {
			return nil, fmt.Errorf("create adapter %q: %w", cfg.Name, err)
		}
		reg.adapters = append(reg.adapters, adapter)
		reg.configs = append(reg.configs, cfg)
	}

	return reg, nil
}

// Adapters returns all active adapters.
func (r *Registry) Adapters() []messaging.MessageAdapter {
	return r.adapters
}

// Handler forwards every event to the adapters whose filters accept it. Delivery errors
// are logged and joined into the returned error.
func (r *Registry) Handler(logger *slog.Logger) events.EventHandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, event events.DomainEvent) error {
		base, ok := event.(*events.BaseEvent)
		if !ok {
			return nil
		}
		var errs []error
		for i, adapter := range r.adapters {
			if !r.configs[i].Accepts(base.Type) {
				continue
			}
			if err := adapter.Send(ctx, base); err != nil {
				logger.Warn("message delivery failed", "adapter", adapter.Name(), "type", adapter.Type(), "event", base.Type, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", adapter.Name(), err))
			}
		}
		return errors.Join(errs...)
	}
}

// Close releases adapter connections.
func (r *Registry) Close() {
	for _, a := range r.adapters {
		if c, ok := a.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

func createAdapter(cfg messaging.AdapterConfig, deadLetter *DeadLetterStore) (messaging.MessageAdapter, error) {
	switch cfg.Type {
	case "webhook":
		if cfg.URL == "" {
			return nil, fmt.Errorf("webhook adapter requires a url")
		}
		return NewWebhookAdapter(cfg, deadLetter), nil
	case "slack":
		if cfg.URL == "" {
			return nil, fmt.Errorf("slack adapter requires a url")
		}
		return NewSlackAdapter(cfg), nil
	case "nats":
		return NewNATSAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", cfg.Type)
	}
}
