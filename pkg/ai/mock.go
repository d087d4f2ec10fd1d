package ai

import (
	"context"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
)

// MockProvider returns a canned answer. Useful for tests and offline demos.
type MockProvider struct {
	Model string
	Text  string
	Err   error
}

func (p *MockProvider) ID() string {
	return "mock:" + p.Model
}

func (p *MockProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	text := p.Text
	if text == "" {
		text = `{"colors_match": true, "quality_score": 0.9, "mascot_accurate": true, "professional": true, "issues": [], "strengths": ["athletic pose"]}`
	}
	return &ai.CompletionResponse{
		Text:  text,
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  len(req.Prompt) / 4,
			OutputTokens: len(text) / 4,
		},
	}, nil
}
