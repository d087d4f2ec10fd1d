package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

// DefaultSubjectPrefix is prepended to the event type when no subject is configured.
const DefaultSubjectPrefix = "visionqa.events"

type publisher interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSAdapter publishes events to a NATS subject. It connects on first use.
type NATSAdapter struct {
	config  messaging.AdapterConfig
	mu      sync.Mutex
	conn    publisher
	connect func(url string) (publisher, error)
}

// NewNATSAdapter creates a NATS adapter from config. Option "subject" fixes the subject;
// otherwise events go to visionqa.events.<type>.
func NewNATSAdapter(config messaging.AdapterConfig) *NATSAdapter {
	return &NATSAdapter{
		config: config,
		connect: func(url string) (publisher, error) {
			return nats.Connect(url,
				nats.Name("visionqa"),
				nats.Timeout(5*time.Second),
			)
		},
	}
}

func (a *NATSAdapter) Name() string { return a.config.Name }
func (a *NATSAdapter) Type() string { return "nats" }

func (a *NATSAdapter) Send(ctx context.Context, event *events.BaseEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := a.connection()
	if err != nil {
		return err
	}
	if err := conn.Publish(a.subject(event.Type), body); err != nil {
		return fmt.Errorf("publish to nats: %w", err)
	}
	return nil
}

// Close drops the connection if one was opened.
func (a *NATSAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
}

func (a *NATSAdapter) connection() (publisher, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		return a.conn, nil
	}
	url := a.config.URL
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := a.connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	a.conn = conn
	return conn, nil
}

func (a *NATSAdapter) subject(eventType string) string {
	if s := a.config.Options["subject"]; s != "" {
		return s
	}
	return DefaultSubjectPrefix + "." + eventType
}
