package messaging_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ultrapreps/visionqa/internal/infrastructure/messaging"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
	domainmsg "github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

func TestRegistry_CreatesAdapters(t *testing.T) {
	config := &domainmsg.MessagingConfig{
		Adapters: []domainmsg.AdapterConfig{
			{Name: "webhook1", Type: "webhook", URL: "http://example.com", Enabled: true},
			{Name: "slack1", Type: "slack", URL: "http://slack.com/hook", Enabled: true},
			{Name: "bus", Type: "nats", URL: "nats://localhost:4222", Enabled: true},
			{Name: "disabled", Type: "webhook", URL: "http://disabled.com", Enabled: false},
		},
	}

	registry, err := messaging.NewRegistry(config, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	adapters := registry.Adapters()
	if len(adapters) != 3 {
		t.Errorf("expected 3 enabled adapters, got %d", len(adapters))
	}
	registry.Close()
}

func TestRegistry_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  domainmsg.AdapterConfig
	}{
		{"unknown type", domainmsg.AdapterConfig{Name: "bad", Type: "unknown", URL: "http://example.com", Enabled: true}},
		{"webhook without url", domainmsg.AdapterConfig{Name: "w", Type: "webhook", Enabled: true}},
		{"slack without url", domainmsg.AdapterConfig{Name: "s", Type: "slack", Enabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := messaging.NewRegistry(&domainmsg.MessagingConfig{Adapters: []domainmsg.AdapterConfig{tt.cfg}}, nil)
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRegistry_NilConfig(t *testing.T) {
	registry, err := messaging.NewRegistry(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(registry.Adapters()) != 0 {
		t.Errorf("expected 0 adapters for nil config")
	}
}

func TestRegistry_HandlerHonorsFilters(t *testing.T) {
	var all, regen int32
	allSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&all, 1) }))
	defer allSrv.Close()
	regenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&regen, 1) }))
	defer regenSrv.Close()

	registry, err := messaging.NewRegistry(&domainmsg.MessagingConfig{
		Adapters: []domainmsg.AdapterConfig{
			{Name: "all", Type: "webhook", URL: allSrv.URL, Enabled: true},
			{Name: "regen", Type: "webhook", URL: regenSrv.URL, Enabled: true,
				EventFilters: []string{events.EventTypeRegenerationRequired}},
		},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	d := events.NewEventDispatcher()
	d.RegisterWildcard("messaging", registry.Handler(nil))

	ctx := context.Background()
	_ = d.Dispatch(ctx, validatedEvent())
	_ = d.Dispatch(ctx, events.NewBatchCompleted("run", 1, 1))

	if all != 2 || regen != 0 {
		t.Errorf("deliveries all=%d regen=%d, want 2 and 0", all, regen)
	}
}

func TestRegistry_HandlerReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	registry, _ := messaging.NewRegistry(&domainmsg.MessagingConfig{
		Adapters: []domainmsg.AdapterConfig{
			{Name: "down", Type: "webhook", URL: srv.URL, Enabled: true,
				Options: map[string]string{"max_retries": "1"}},
		},
	}, nil)

	if err := registry.Handler(nil)(context.Background(), validatedEvent()); err == nil {
		t.Error("expected delivery error")
	}
}
