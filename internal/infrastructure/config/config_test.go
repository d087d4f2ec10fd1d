package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
)

func TestLoadConfigMissing(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tempDir, ".visionqa"), 0700); err != nil {
		t.Fatalf("mkdir .visionqa: %v", err)
	}

	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config for missing file")
	}

	cfg, err = LoadOrDefault(tempDir)
	if err != nil || cfg == nil {
		t.Fatalf("expected empty default config, got %v %v", cfg, err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	input := &Config{
		Provider:    "openai",
		Model:       "gpt-4o",
		MaxRetries:  4,
		Concurrency: 8,
		Cache:       CacheConfig{Addr: "localhost:6379", TTLSec: 60},
		Watch:       WatchConfig{Patterns: []string{"**/*.png"}},
		Review:      ReviewConfig{MaxAttempts: 5},
		Messaging: &messaging.MessagingConfig{Adapters: []messaging.AdapterConfig{
			{Name: "ops", Type: "slack", URL: "https://hooks.slack.test/x", Enabled: true},
		}},
	}
	if err := Save(tempDir, input); err != nil {
		t.Fatalf("save config: %v", err)
	}

	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected config")
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" || cfg.MaxRetries != 4 || cfg.Concurrency != 8 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Cache.TTL() != time.Minute || cfg.Review.MaxAttempts != 5 {
		t.Errorf("unexpected nested config: %+v", cfg)
	}
	if cfg.Messaging == nil || len(cfg.Messaging.Adapters) != 1 || cfg.Messaging.Adapters[0].Type != "slack" {
		t.Errorf("messaging not round-tripped: %+v", cfg.Messaging)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, ".visionqa")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir .visionqa: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("::bad"), 0600); err != nil {
		t.Fatalf("write bad config: %v", err)
	}

	if _, err := Load(tempDir); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestSaveNilConfig(t *testing.T) {
	if err := Save(t.TempDir(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestDefaults(t *testing.T) {
	var c Config
	if c.Cache.TTL() != 24*time.Hour {
		t.Errorf("cache ttl default = %v", c.Cache.TTL())
	}
	if c.Watch.Debounce() != 500*time.Millisecond {
		t.Errorf("debounce default = %v", c.Watch.Debounce())
	}
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		key, value, want string
		wantErr          bool
	}{
		{"provider", "anthropic", "anthropic", false},
		{"max_retries", "3", "3", false},
		{"cache.addr", "redis:6379", "redis:6379", false},
		{"watch.patterns", "*.png, **/*.jpg,", "*.png,**/*.jpg", false},
		{"review.max_attempts", "two", "", true},
		{"concurrency", "-1", "", true},
		{"nope", "x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var c Config
			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got, err := c.Get(tt.key)
			if err != nil || got != tt.want {
				t.Errorf("Get(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
			}
		})
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
	if len(keys) != len(fields) {
		t.Errorf("expected %d keys, got %d", len(fields), len(keys))
	}
}

func TestUnknownKey(t *testing.T) {
	var c Config
	if _, err := c.Get("provider.name"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get: expected ErrUnknownKey, got %v", err)
	}
	if err := c.Set("metrics.port", "9090"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set: expected ErrUnknownKey, got %v", err)
	}
}
