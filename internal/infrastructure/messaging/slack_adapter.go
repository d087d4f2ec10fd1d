package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

// SlackAdapter sends events to a Slack incoming webhook URL.
type SlackAdapter struct {
	config messaging.AdapterConfig
	client *http.Client
}

// NewSlackAdapter creates a Slack adapter from config.
func NewSlackAdapter(config messaging.AdapterConfig) *SlackAdapter {
	return &SlackAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *SlackAdapter) Name() string { return a.config.Name }
func (a *SlackAdapter) Type() string { return "slack" }

func (a *SlackAdapter) Send(ctx context.Context, event *events.BaseEvent) error {
	text := formatSlackMessage(event)

	payload := map[string]interface{}{
		"text": text,
		"blocks": []map[string]interface{}{
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	return nil
}

func formatSlackMessage(event *events.BaseEvent) string {
	m := event.Metadata
	switch event.Type {
	case events.EventTypeAssetValidated:
		icon := ":white_check_mark:"
		if passed, _ := m["passed"].(bool); !passed {
			icon = ":x:"
		}
		return fmt.Sprintf("%s %v validated: `%s` scored %.2f", icon, m["asset_type"], event.Subject, toFloat(m["score"]))
	case events.EventTypeRegenerationRequired:
		return fmt.Sprintf(":repeat: Regeneration required for %v `%s` (score %.2f)", m["asset_type"], event.Subject, toFloat(m["score"]))
	case events.EventTypeFallbackUsed:
		return fmt.Sprintf(":warning: Vision backend %v unavailable, simulated score used for `%s`", m["provider"], event.Subject)
	case events.EventTypeBatchCompleted:
		return fmt.Sprintf(":bar_chart: Batch %s complete: %v/%v passed", event.Subject, m["passed"], m["total"])
	case events.EventTypeReviewStateChanged:
		return fmt.Sprintf(":clipboard: Review `%s`: %v -> %v", event.Subject, m["from"], m["to"])
	default:
		return fmt.Sprintf("VisionQA event: %s", event.Type)
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
