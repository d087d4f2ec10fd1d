package wiring

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ultrapreps/visionqa/internal/infrastructure/config"
	"github.com/ultrapreps/visionqa/internal/infrastructure/messaging"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Root        string
	Repo        *storage.FilesystemRepository
	Config      *config.Config
	Dispatcher  *events.EventDispatcher
	Messaging   *messaging.Registry
	DeadLetters *messaging.DeadLetterStore
}

// NewWorkspace loads the config and wires the event dispatcher. Every event is logged
// and forwarded to the configured messaging adapters.
func NewWorkspace(root string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repo := storage.NewFilesystemRepository(root)

	cfg, err := config.LoadOrDefault(root)
	if err != nil {
		return nil, err
	}

	dlStore := messaging.NewDeadLetterStore(filepath.Join(root, storage.VisionQADir, storage.DeadLetterFile))
	registry, err := messaging.NewRegistry(cfg.Messaging, dlStore)
	if err != nil {
		return nil, fmt.Errorf("messaging config: %w", err)
	}

	dispatcher := events.NewEventDispatcher()
	dispatcher.RegisterWildcard("logging", events.NewLoggingHandler(logger))
	if len(registry.Adapters()) > 0 {
		dispatcher.RegisterWildcard("messaging", registry.Handler(logger))
	}

	return &Workspace{
		Root:        root,
		Repo:        repo,
		Config:      cfg,
		Dispatcher:  dispatcher,
		Messaging:   registry,
		DeadLetters: dlStore,
	}, nil
}
