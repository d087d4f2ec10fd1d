package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	infraAI "github.com/ultrapreps/visionqa/pkg/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/ai"
)

type FaultyProvider struct {
	maxFail  int
	attempts int
}

func (p *FaultyProvider) ID() string { return "faulty" }

func (p *FaultyProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	p.attempts++
	if p.attempts <= p.maxFail {
		return nil, errors.New("transient failure")
	}
	return &ai.CompletionResponse{Text: "success"}, nil
}

type SlowProvider struct{}

func (p *SlowProvider) ID() string { return "slow" }

func (p *SlowProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return &ai.CompletionResponse{Text: "late"}, nil
	}
}

func TestResilientProvider_ID_Delegates(t *testing.T) {
	inner := &infraAI.MockProvider{Model: "test-model"}
	p := infraAI.NewResilientProvider(inner)
	if p.ID() != "mock:test-model" {
		t.Errorf("expected ID 'mock:test-model', got %q", p.ID())
	}
}

func TestResilienceConfig_Defaults(t *testing.T) {
	cfg := infraAI.DefaultResilienceConfig()
	if cfg.MaxRetries != 2 {
		t.Errorf("expected MaxRetries 2, got %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("expected RetryDelay 1s, got %v", cfg.RetryDelay)
	}
	if cfg.Timeout != 300*time.Second {
		t.Errorf("expected Timeout 300s, got %v", cfg.Timeout)
	}
}

func TestResilientProviderWithConfig_ZeroValuesUseDefaults(t *testing.T) {
	p := infraAI.NewResilientProviderWithConfig(&infraAI.MockProvider{Text: "ok"}, infraAI.ResilienceConfig{})
	if p.Config() != infraAI.DefaultResilienceConfig() {
		t.Errorf("expected defaults, got %+v", p.Config())
	}

	resp, err := p.Complete(context.Background(), ai.CompletionRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "ok" {
		t.Errorf("expected ok, got %s", resp.Text)
	}
}

func TestResilientProviderWithConfig_CustomRetries(t *testing.T) {
	faulty := &FaultyProvider{maxFail: 3}
	cfg := infraAI.ResilienceConfig{
		MaxRetries: 5,
		RetryDelay: 10 * time.Millisecond, // Fast retries for test
		Timeout:    5 * time.Second,
	}
	resilient := infraAI.NewResilientProviderWithConfig(faulty, cfg)

	resp, err := resilient.Complete(context.Background(), ai.CompletionRequest{})
	if err != nil {
		t.Fatalf("Expected success with 5 retries, got: %v", err)
	}
	if resp.Text != "success" {
		t.Errorf("Expected success response")
	}
	if faulty.attempts != 4 { // 3 failures + 1 success
		t.Errorf("Expected 4 attempts, got %d", faulty.attempts)
	}
}

func TestResilientProvider_GivesUp(t *testing.T) {
	faulty := &FaultyProvider{maxFail: 10}
	resilient := infraAI.NewResilientProviderWithConfig(faulty, infraAI.ResilienceConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	})

	if _, err := resilient.Complete(context.Background(), ai.CompletionRequest{}); err == nil {
		t.Fatal("expected error after retries are exhausted")
	}
	if faulty.attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", faulty.attempts)
	}
}

func TestResilientProvider_Timeout_Fail(t *testing.T) {
	resilient := infraAI.NewResilientProvider(&SlowProvider{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := resilient.Complete(ctx, ai.CompletionRequest{})
	if err == nil {
		t.Error("expected timeout error")
	}
}
