package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
)

func unreachableCache() *ResponseCache {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewResponseCacheWithClient(client, 0)
}

func TestResponseCache_DefaultTTL(t *testing.T) {
	c := unreachableCache()
	defer c.Close()
	if c.ttl != 24*time.Hour {
		t.Errorf("ttl = %v", c.ttl)
	}
}

func TestResponseCache_UnreachableErrors(t *testing.T) {
	c := unreachableCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Ping(ctx); err == nil {
		t.Error("expected ping error")
	}
	if _, ok, err := c.Get(ctx, "visionqa:completion:x"); err == nil || ok {
		t.Errorf("expected get error, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "visionqa:completion:x", &ai.CompletionResponse{Text: "{}"}); err == nil {
		t.Error("expected set error")
	}
}

func TestResponseCache_SetNilIsNoop(t *testing.T) {
	c := unreachableCache()
	defer c.Close()
	if err := c.Set(context.Background(), "k", nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// Runs against a real server when VISIONQA_TEST_REDIS is set, e.g. localhost:6379.
func TestResponseCache_Integration(t *testing.T) {
	addr := os.Getenv("VISIONQA_TEST_REDIS")
	if addr == "" {
		t.Skip("VISIONQA_TEST_REDIS not set")
	}
	c := NewResponseCache(Options{Addr: addr, TTL: time.Minute})
	defer c.Close()
	ctx := context.Background()

	key := "visionqa:completion:test-" + time.Now().Format("150405.000000")
	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	want := &ai.CompletionResponse{Text: `{"quality_score":0.9}`, Model: "gpt-4o", Usage: ai.TokenUsage{InputTokens: 10}}
	if err := c.Set(ctx, key, want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Text != want.Text || got.Usage.InputTokens != 10 {
		t.Errorf("unexpected cached response %+v", got)
	}
}
