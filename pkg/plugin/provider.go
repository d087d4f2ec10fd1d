package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	domainPlugin "github.com/ultrapreps/visionqa/pkg/domain/plugin"
)

// Provider adapts an out-of-process Analyzer to ai.Provider. Analyzers take one image
// per call, so requests carrying several images are rejected.
type Provider struct {
	analyzer domainPlugin.Analyzer
	name     string
}

// NewProvider asks the analyzer for its name once and keeps it as the provider ID.
func NewProvider(analyzer domainPlugin.Analyzer) (*Provider, error) {
	name, err := analyzer.Name()
	if err != nil {
		return nil, fmt.Errorf("query analyzer name: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "unnamed"
	}
	return &Provider{analyzer: analyzer, name: name}, nil
}

func (p *Provider) ID() string {
	return "plugin:" + p.name
}

func (p *Provider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if len(req.Images) > 1 {
		return nil, fmt.Errorf("analyzer plugins accept one image per request, got %d", len(req.Images))
	}

	aReq := &domainPlugin.AnalyzeRequest{Prompt: req.Prompt, System: req.System}
	if len(req.Images) == 1 {
		if err := fillImage(aReq, req.Images[0]); err != nil {
			return nil, err
		}
	}

	type result struct {
		resp *domainPlugin.AnalyzeResponse
		err  error
	}
	// net/rpc calls cannot be cancelled; abandon the call when ctx ends.
	done := make(chan result, 1)
	go func() {
		resp, err := p.analyzer.Analyze(aReq)
		done <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("analyzer %s: %w", p.name, r.err)
		}
		if r.resp == nil {
			return nil, fmt.Errorf("analyzer %s returned no response", p.name)
		}
		model := r.resp.Model
		if model == "" {
			model = p.name
		}
		return &ai.CompletionResponse{Text: r.resp.Text, Model: model}, nil
	}
}

func fillImage(req *domainPlugin.AnalyzeRequest, img asset.Image) error {
	req.ImageRef = img.Ref
	if img.Kind() == asset.ImageURL {
		return nil
	}
	mimeType, data, err := img.Inline()
	if err != nil {
		return fmt.Errorf("prepare image %s: %w", img, err)
	}
	req.ImageMIME = mimeType
	req.ImageData = data
	return nil
}
