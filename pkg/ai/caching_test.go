package ai_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	infraAI "github.com/ultrapreps/visionqa/pkg/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*ai.CompletionResponse
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*ai.CompletionResponse{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (*ai.CompletionResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	resp, ok := c.entries[key]
	return resp, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, resp *ai.CompletionResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = resp
	return nil
}

type countingProvider struct {
	calls int
}

func (p *countingProvider) ID() string { return "counting" }

func (p *countingProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	p.calls++
	return &ai.CompletionResponse{Text: req.Prompt}, nil
}

func TestCachingProvider_HitSkipsBackend(t *testing.T) {
	inner := &countingProvider{}
	p := infraAI.NewCachingProvider(inner, newMemoryCache(), nil)
	req := ai.CompletionRequest{Prompt: "rate", Images: []asset.Image{asset.NewImage("a.png")}}

	for i := 0; i < 3; i++ {
		resp, err := p.Complete(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Text != "rate" {
			t.Errorf("unexpected text %q", resp.Text)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected one backend call, got %d", inner.calls)
	}
	if p.ID() != "counting" {
		t.Errorf("expected delegated ID, got %q", p.ID())
	}
}

func TestCachingProvider_CacheErrorsDoNotFail(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	inner := &countingProvider{}
	p := infraAI.NewCachingProvider(inner, cache, nil)

	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "x"}); err != nil {
		t.Fatalf("expected cache failure to be ignored, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected backend call, got %d", inner.calls)
	}
}

func TestCachingProvider_BackendErrorNotCached(t *testing.T) {
	cache := newMemoryCache()
	p := infraAI.NewCachingProvider(&infraAI.MockProvider{Err: errors.New("boom")}, cache, nil)

	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected backend error")
	}
	if len(cache.entries) != 0 {
		t.Errorf("expected nothing cached, got %d entries", len(cache.entries))
	}
}

func TestCacheKey(t *testing.T) {
	base := ai.CompletionRequest{Prompt: "p", System: "s", Images: []asset.Image{asset.NewImage("a.png")}}

	if infraAI.CacheKey("openai:gpt-4o", base) != infraAI.CacheKey("openai:gpt-4o", base) {
		t.Error("expected stable key")
	}

	variants := map[string]ai.CompletionRequest{
		"prompt": {Prompt: "q", System: "s", Images: base.Images},
		"system": {Prompt: "p", System: "t", Images: base.Images},
		"image":  {Prompt: "p", System: "s", Images: []asset.Image{asset.NewImage("b.png")}},
		"json":   {Prompt: "p", System: "s", Images: base.Images, JSONMode: true},
	}
	for name, req := range variants {
		if infraAI.CacheKey("openai:gpt-4o", req) == infraAI.CacheKey("openai:gpt-4o", base) {
			t.Errorf("%s change should alter the key", name)
		}
	}
	if infraAI.CacheKey("gemini:x", base) == infraAI.CacheKey("openai:gpt-4o", base) {
		t.Error("provider should be part of the key")
	}
}

func TestCachingProvider_RewrittenFileMisses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.png")
	if err := os.WriteFile(path, []byte("first render"), 0o600); err != nil {
		t.Fatal(err)
	}

	inner := &countingProvider{}
	p := infraAI.NewCachingProvider(inner, newMemoryCache(), nil)
	req := ai.CompletionRequest{Prompt: "rate", Images: []asset.Image{asset.NewImage(path)}}

	if _, err := p.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected unchanged file to hit the cache, got %d backend calls", inner.calls)
	}

	if err := os.WriteFile(path, []byte("second render"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected rewritten file to reach the backend, got %d backend calls", inner.calls)
	}
}

func TestCacheKey_RemoteURLKeyedOnRef(t *testing.T) {
	a := ai.CompletionRequest{Prompt: "p", Images: []asset.Image{asset.NewImage("https://cdn.example.com/a.png")}}
	b := ai.CompletionRequest{Prompt: "p", Images: []asset.Image{asset.NewImage("https://cdn.example.com/b.png")}}

	if infraAI.CacheKey("openai:gpt-4o", a) != infraAI.CacheKey("openai:gpt-4o", a) {
		t.Error("expected stable key for a remote image")
	}
	if infraAI.CacheKey("openai:gpt-4o", a) == infraAI.CacheKey("openai:gpt-4o", b) {
		t.Error("different URLs should produce different keys")
	}
}
