package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// CachingProvider answers repeated requests from a ResponseCache. Cache failures are
// logged and never fail the request.
type CachingProvider struct {
	inner  ai.Provider
	cache  ai.ResponseCache
	logger *slog.Logger
}

func NewCachingProvider(inner ai.Provider, cache ai.ResponseCache, logger *slog.Logger) *CachingProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CachingProvider{inner: inner, cache: cache, logger: logger}
}

func (p *CachingProvider) ID() string {
	return p.inner.ID()
}

func (p *CachingProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	key := CacheKey(p.inner.ID(), req)

	cached, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("response cache read failed", "key", key, "error", err)
	} else if ok {
		p.logger.Debug("response cache hit", "key", key)
		return cached, nil
	}

	resp, err := p.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	if err := p.cache.Set(ctx, key, resp); err != nil {
		p.logger.Warn("response cache write failed", "key", key, "error", err)
	}
	return resp, nil
}

// CacheKey fingerprints a request for a given provider. Local files are keyed on their
// contents so a file rewritten in place misses the cache; remote URLs are keyed on the ref.
func CacheKey(providerID string, req ai.CompletionRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%t\x00%g\x00%d", providerID, req.System, req.Prompt, req.JSONMode, req.Temperature, req.MaxTokens)
	for _, img := range req.Images {
		fmt.Fprintf(h, "\x00%s", img.Ref)
		if img.Kind() != asset.ImageFile {
			continue
		}
		mimeType, data, err := img.Inline()
		if err != nil {
			fmt.Fprint(h, "\x00unreadable")
			continue
		}
		sum := sha256.Sum256([]byte(data))
		fmt.Fprintf(h, "\x00%s\x00%x", mimeType, sum)
	}
	return "visionqa:completion:" + hex.EncodeToString(h.Sum(nil))
}
