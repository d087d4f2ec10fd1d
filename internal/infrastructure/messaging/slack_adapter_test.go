package messaging_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ultrapreps/visionqa/internal/infrastructure/messaging"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
	domainmsg "github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

func TestSlackAdapter_Send(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		texts = append(texts, body.Text)
	}))
	defer srv.Close()

	adapter := messaging.NewSlackAdapter(domainmsg.AdapterConfig{Name: "slack", URL: srv.URL})

	evts := []*events.BaseEvent{
		validatedEvent(),
		events.NewBatchCompleted("run-1", 4, 3),
		events.NewReviewStateChanged("hero.png", "pending", "approved", 0),
	}
	for _, e := range evts {
		if err := adapter.Send(context.Background(), e); err != nil {
			t.Fatalf("send %s: %v", e.Type, err)
		}
	}

	want := []string{"hero.png", "3/4 passed", "pending -> approved"}
	for i, w := range want {
		if !strings.Contains(texts[i], w) {
			t.Errorf("message %d = %q, want it to contain %q", i, texts[i], w)
		}
	}
}

func TestSlackAdapter_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	adapter := messaging.NewSlackAdapter(domainmsg.AdapterConfig{Name: "slack", URL: srv.URL})
	if err := adapter.Send(context.Background(), validatedEvent()); err == nil {
		t.Error("expected error for 403")
	}
}
