// Package config loads and saves the workspace configuration in .visionqa/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
	"github.com/ultrapreps/visionqa/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Config stores provider, runtime and integration settings.
type Config struct {
	Provider     string `yaml:"provider,omitempty"`
	Model        string `yaml:"model,omitempty"`
	PluginPath   string `yaml:"plugin_path,omitempty"`
	MaxRetries   int    `yaml:"max_retries,omitempty"`
	RetryDelayMs int    `yaml:"retry_delay_ms,omitempty"`
	TimeoutSec   int    `yaml:"timeout_sec,omitempty"`
	Concurrency  int    `yaml:"concurrency,omitempty"`

	Cache     CacheConfig                `yaml:"cache,omitempty"`
	Metrics   MetricsConfig              `yaml:"metrics,omitempty"`
	Watch     WatchConfig                `yaml:"watch,omitempty"`
	Review    ReviewConfig               `yaml:"review,omitempty"`
	Messaging *messaging.MessagingConfig `yaml:"messaging,omitempty"`
}

// CacheConfig points at a Redis instance for caching vision responses. Empty Addr
// disables caching.
type CacheConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	TTLSec   int    `yaml:"ttl_sec,omitempty"`
}

// TTL returns the cache entry lifetime, one day by default.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSec <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TTLSec) * time.Second
}

// MetricsConfig sets the listen address for the standalone metrics endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Patterns   []string `yaml:"patterns,omitempty"`
	DebounceMs int      `yaml:"debounce_ms,omitempty"`
}

// Debounce returns the quiet period before a changed file is validated.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// ReviewConfig controls the review lifecycle.
type ReviewConfig struct {
	MaxAttempts int `yaml:"max_attempts,omitempty"`
}

// Load reads the workspace config. A missing file yields nil without error.
func Load(root string) (*Config, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault reads the workspace config, returning an empty one when missing.
func LoadOrDefault(root string) (*Config, error) {
	cfg, err := Load(root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg, nil
}

// Save writes the config, creating .visionqa when needed.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(p func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func intField(p func(*Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			if n < 0 {
				return fmt.Errorf("value must not be negative")
			}
			*p(c) = n
			return nil
		},
	}
}

var patternsField = field{
	get: func(c *Config) string { return strings.Join(c.Watch.Patterns, ",") },
	set: func(c *Config, v string) error {
		c.Watch.Patterns = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Watch.Patterns = append(c.Watch.Patterns, p)
			}
		}
		return nil
	},
}

var fields = map[string]field{
	"provider":            stringField(func(c *Config) *string { return &c.Provider }),
	"model":               stringField(func(c *Config) *string { return &c.Model }),
	"plugin_path":         stringField(func(c *Config) *string { return &c.PluginPath }),
	"max_retries":         intField(func(c *Config) *int { return &c.MaxRetries }),
	"retry_delay_ms":      intField(func(c *Config) *int { return &c.RetryDelayMs }),
	"timeout_sec":         intField(func(c *Config) *int { return &c.TimeoutSec }),
	"concurrency":         intField(func(c *Config) *int { return &c.Concurrency }),
	"cache.addr":          stringField(func(c *Config) *string { return &c.Cache.Addr }),
	"cache.password":      stringField(func(c *Config) *string { return &c.Cache.Password }),
	"cache.db":            intField(func(c *Config) *int { return &c.Cache.DB }),
	"cache.ttl_sec":       intField(func(c *Config) *int { return &c.Cache.TTLSec }),
	"metrics.addr":        stringField(func(c *Config) *string { return &c.Metrics.Addr }),
	"watch.debounce_ms":   intField(func(c *Config) *int { return &c.Watch.DebounceMs }),
	"review.max_attempts": intField(func(c *Config) *int { return &c.Review.MaxAttempts }),
	"watch.patterns":      patternsField,
}

// ErrUnknownKey is returned for keys outside Keys().
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set assigns a dotted key from its string form.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
