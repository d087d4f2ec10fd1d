// Package ai defines the contract for vision-capable language model backends.
package ai

import (
	"context"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// CompletionRequest is a prompt plus the images the model should look at.
type CompletionRequest struct {
	Prompt      string
	System      string
	Images      []asset.Image
	Temperature float32
	MaxTokens   int
	// JSONMode asks providers that support it to constrain output to a JSON object.
	JSONMode bool
}

// CompletionResponse represents the model's answer.
type CompletionResponse struct {
	Text  string
	Usage TokenUsage
	Model string
}

// TokenUsage tracks costs.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is the interface for all vision backends.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ResponseCache stores completed responses keyed by a request fingerprint.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*CompletionResponse, bool, error)
	Set(ctx context.Context, key string, resp *CompletionResponse) error
}
