package wiring

import (
	"fmt"
	"log/slog"

	"github.com/ultrapreps/visionqa/internal/infrastructure/metrics"
	"github.com/ultrapreps/visionqa/pkg/application"
	domainai "github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/plugin"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace  *Workspace
	Validation *application.ValidationService
	Review     *application.ReviewService
	Plugins    *application.PluginService
	Metrics    *metrics.Recorder
	Provider   domainai.Provider // nil in mock mode

	loaded *LoadedProvider
	loader *plugin.Loader
}

// Close releases plugin processes, cache and messaging connections.
func (s *AppServices) Close() {
	if s.loaded != nil {
		s.loaded.Close()
	}
	if s.loader != nil {
		s.loader.Cleanup()
	}
	if s.Workspace != nil && s.Workspace.Messaging != nil {
		s.Workspace.Messaging.Close()
	}
}

// BuildAppServices wires services for a workspace root. When the configured backend
// cannot be built the services run in mock mode and the load error is returned
// alongside them.
func BuildAppServices(root string, logger *slog.Logger) (*AppServices, error) {
	return BuildAppServicesWithProvider(root, logger, func(root string) (*LoadedProvider, error) {
		return LoadAIProvider(root, logger)
	})
}

// BuildAppServicesWithProvider allows callers to supply a custom provider resolver.
func BuildAppServicesWithProvider(root string, logger *slog.Logger, resolver func(string) (*LoadedProvider, error)) (*AppServices, error) {
	if logger == nil {
		logger = slog.Default()
	}
	workspace, err := NewWorkspace(root, logger)
	if err != nil {
		return nil, err
	}

	loaded, err := resolver(root)
	var loadErr error
	if err != nil {
		loadErr = fmt.Errorf("AI provider config fallback: %w", err)
		logger.Warn("vision backend unavailable, using simulated scoring", "error", err)
		loaded = &LoadedProvider{}
	}

	recorder := metrics.NewRecorder()
	validation := application.NewValidationService(loaded.Provider,
		application.WithLogger(logger),
		application.WithDispatcher(workspace.Dispatcher),
		application.WithMetrics(recorder),
		application.WithConcurrency(workspace.Config.Concurrency),
	)
	review := application.NewReviewService(workspace.Repo, validation, workspace.Dispatcher, logger,
		workspace.Config.Review.MaxAttempts)
	loader := plugin.NewLoader()

	return &AppServices{
		Workspace:  workspace,
		Validation: validation,
		Review:     review,
		Plugins:    application.NewPluginService(workspace.Repo, loader),
		Metrics:    recorder,
		Provider:   loaded.Provider,
		loaded:     loaded,
		loader:     loader,
	}, loadErr
}
