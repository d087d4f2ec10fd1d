package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// mockProvider implements the Provider interface for testing.
type mockProvider struct {
	id       string
	response *CompletionResponse
	err      error
	lastReq  CompletionRequest
}

func (m *mockProvider) ID() string { return m.id }
func (m *mockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestProvider_InterfaceContract(t *testing.T) {
	var _ Provider = &mockProvider{}
}

func TestProvider_Complete_CarriesImages(t *testing.T) {
	provider := &mockProvider{
		id: "test-provider",
		response: &CompletionResponse{
			Text:  `{"colors_match": true}`,
			Model: "test-model",
			Usage: TokenUsage{InputTokens: 10, OutputTokens: 5},
		},
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Prompt:   "Analyze this hero card",
		Images:   []asset.Image{asset.NewImage("https://cdn.example.com/card.png")},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Usage.InputTokens != 10 {
		t.Errorf("InputTokens = %d, want 10", resp.Usage.InputTokens)
	}
	if len(provider.lastReq.Images) != 1 || provider.lastReq.Images[0].Kind() != asset.ImageURL {
		t.Errorf("images not passed through: %+v", provider.lastReq.Images)
	}
}

func TestProvider_Complete_Error(t *testing.T) {
	provider := &mockProvider{id: "error-provider", err: fmt.Errorf("connection refused")}

	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil || err.Error() != "connection refused" {
		t.Errorf("error = %v, want connection refused", err)
	}
}
