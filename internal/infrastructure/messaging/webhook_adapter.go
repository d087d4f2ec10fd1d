// Package messaging provides pluggable messaging adapter implementations.
package messaging

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

// SignatureHeader carries the HMAC-SHA256 of the request body when a secret is set.
const SignatureHeader = "X-VisionQA-Signature"

// Payload is the JSON body sent to webhook endpoints.
type Payload struct {
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      *events.BaseEvent `json:"data"`
}

// WebhookAdapter sends events to a generic webhook URL.
type WebhookAdapter struct {
	config     messaging.AdapterConfig
	client     *http.Client
	retryCfg   retry.Config
	deadLetter *DeadLetterStore
}

// NewWebhookAdapter creates a webhook adapter from config. Options "max_retries" and
// "retry_delay_ms" tune delivery; deliveries that exhaust them go to deadLetter when set.
func NewWebhookAdapter(config messaging.AdapterConfig, deadLetter *DeadLetterStore) *WebhookAdapter {
	attempts := optionInt(config.Options, "max_retries", 3)
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(optionInt(config.Options, "retry_delay_ms", 1000)) * time.Millisecond
	return &WebhookAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		retryCfg: retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  delay,
			BackoffPolicy: retry.BackoffExponential,
		},
		deadLetter: deadLetter,
	}
}

func (a *WebhookAdapter) Name() string { return a.config.Name }
func (a *WebhookAdapter) Type() string { return "webhook" }

func (a *WebhookAdapter) Send(ctx context.Context, event *events.BaseEvent) error {
	body, err := json.Marshal(Payload{
		EventType: event.Type,
		Timestamp: event.Timestamp,
		Data:      event,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	r := retry.New[struct{}](a.retryCfg)
	_, err = r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.post(ctx, body)
	})
	if err == nil {
		return nil
	}

	if a.deadLetter != nil {
		dl := DeadLetter{
			Timestamp:   time.Now(),
			AdapterName: a.config.Name,
			URL:         a.config.URL,
			EventType:   event.Type,
			Payload:     string(body),
			Error:       err.Error(),
			Attempts:    a.retryCfg.MaxAttempts,
		}
		if dlErr := a.deadLetter.Append(dl); dlErr != nil {
			return fmt.Errorf("%w (dead letter: %v)", err, dlErr)
		}
	}
	return err
}

func (a *WebhookAdapter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "VisionQA-Messaging/1.0")
	if a.config.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, a.config.Secret))
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// Sign computes the HMAC-SHA256 of the payload using the secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func optionInt(opts map[string]string, key string, def int) int {
	v, ok := opts[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
