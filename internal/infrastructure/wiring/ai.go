package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ultrapreps/visionqa/internal/infrastructure/cache"
	"github.com/ultrapreps/visionqa/internal/infrastructure/config"
	infraai "github.com/ultrapreps/visionqa/pkg/ai"
	domainai "github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/plugin"
	"github.com/ultrapreps/visionqa/pkg/storage"
)

// ProviderPlugin selects an external analyzer binary as the vision backend.
const ProviderPlugin = "plugin"

// LoadedProvider is a configured vision backend plus whatever must be released when the
// process is done with it. Provider is nil in mock mode.
type LoadedProvider struct {
	Provider domainai.Provider
	closers  []func()
}

// Close releases plugin processes and cache connections.
func (l *LoadedProvider) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
	l.closers = nil
}

// LoadAIProvider builds the vision backend described by the workspace config.
func LoadAIProvider(root string, logger *slog.Logger) (*LoadedProvider, error) {
	cfg, err := config.LoadOrDefault(root)
	if err != nil {
		return nil, err
	}
	return BuildProvider(root, cfg, logger)
}

// BuildProvider resolves the base backend, wraps it with retries and a timeout, and
// adds the Redis response cache when one is configured.
func BuildProvider(root string, cfg *config.Config, logger *slog.Logger) (*LoadedProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loaded := &LoadedProvider{}

	providerName := cfg.Provider
	if env := os.Getenv("VISIONQA_AI_PROVIDER"); env != "" {
		providerName = env
	}

	var base domainai.Provider
	if strings.EqualFold(providerName, ProviderPlugin) {
		p, cleanup, err := loadPluginProvider(root, cfg.PluginPath)
		if err != nil {
			return nil, err
		}
		loaded.closers = append(loaded.closers, cleanup)
		base = p
	} else {
		p, err := infraai.GetDefaultProvider(cfg.Provider, cfg.Model)
		if err != nil {
			return nil, err
		}
		if p == nil {
			logger.Debug("no vision backend configured, using simulated scoring")
			return loaded, nil
		}
		base = p
	}

	resilienceConfig := infraai.DefaultResilienceConfig()
	if cfg.MaxRetries > 0 {
		resilienceConfig.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelayMs > 0 {
		resilienceConfig.RetryDelay = time.Duration(cfg.RetryDelayMs) * time.Millisecond
	}
	if cfg.TimeoutSec > 0 {
		resilienceConfig.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	var provider domainai.Provider = infraai.NewResilientProviderWithConfig(base, resilienceConfig)

	if cfg.Cache.Addr != "" {
		rc := cache.NewResponseCache(cache.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		pingErr := rc.Ping(ctx)
		cancel()
		if pingErr != nil {
			logger.Warn("response cache unavailable, continuing without it", "addr", cfg.Cache.Addr, "error", pingErr)
			_ = rc.Close()
		} else {
			loaded.closers = append(loaded.closers, func() { _ = rc.Close() })
			provider = infraai.NewCachingProvider(provider, rc, logger)
		}
	}

	loaded.Provider = provider
	return loaded, nil
}

// loadPluginProvider starts the analyzer at pathOrName, which is either a binary path or
// the name of a registered plugin.
func loadPluginProvider(root, pathOrName string) (domainai.Provider, func(), error) {
	if pathOrName == "" {
		return nil, nil, fmt.Errorf("provider %q requires plugin_path", ProviderPlugin)
	}
	binary := pathOrName
	if _, err := os.Stat(binary); err != nil {
		pc, lookupErr := storage.NewFilesystemRepository(root).LookupPlugin(pathOrName)
		if lookupErr != nil {
			return nil, nil, fmt.Errorf("plugin %q is neither a binary nor a registered plugin", pathOrName)
		}
		binary = pc.Binary
	}

	loader := plugin.NewLoader()
	analyzer, err := loader.Load(binary)
	if err != nil {
		loader.Cleanup()
		return nil, nil, err
	}
	p, err := plugin.NewProvider(analyzer)
	if err != nil {
		loader.Cleanup()
		return nil, nil, err
	}
	return p, loader.Cleanup, nil
}
