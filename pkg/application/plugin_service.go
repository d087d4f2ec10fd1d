package application

import (
	"fmt"
	"os"
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/plugin"
	"github.com/ultrapreps/visionqa/pkg/storage"
)

// ErrPluginNotFound is returned for names with no registered plugin.
var ErrPluginNotFound = plugin.ErrNotRegistered

// PluginInfo represents enriched plugin information.
type PluginInfo struct {
	Name        string `json:"name"`
	Binary      string `json:"binary"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"` // "available", "missing"
}

// PluginCheck holds the result of plugin validation.
type PluginCheck struct {
	Name     string `json:"name"`
	Valid    bool   `json:"valid"`
	Analyzer string `json:"analyzer,omitempty"`
	Error    string `json:"error,omitempty"`
	Latency  string `json:"latency,omitempty"`
}

// AnalyzerLoader starts a plugin binary.
type AnalyzerLoader interface {
	Load(path string) (plugin.Analyzer, error)
}

// PluginService manages analyzer plugin registration and validation.
type PluginService struct {
	repo   *storage.FilesystemRepository
	loader AnalyzerLoader
}

// NewPluginService creates a new PluginService. With a nil loader ValidatePlugin only
// checks the binary on disk.
func NewPluginService(repo *storage.FilesystemRepository, loader AnalyzerLoader) *PluginService {
	return &PluginService{repo: repo, loader: loader}
}

// RegisterPlugin registers a plugin by name and binary path.
func (s *PluginService) RegisterPlugin(name, binaryPath, description string) error {
	if err := plugin.ValidateName(name); err != nil {
		return err
	}
	if binaryPath == "" {
		return fmt.Errorf("binary path cannot be empty")
	}

	info, err := os.Stat(binaryPath)
	if err != nil {
		return fmt.Errorf("binary not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("binary path is a directory")
	}
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("binary is not executable")
	}

	return s.repo.RegisterPlugin(name, plugin.Entry{
		Binary:       binaryPath,
		Description:  description,
		RegisteredAt: time.Now().UTC(),
	})
}

// UnregisterPlugin removes a plugin by name.
func (s *PluginService) UnregisterPlugin(name string) error {
	return s.repo.RemovePlugin(name)
}

// ResolveBinary returns the binary registered under name.
func (s *PluginService) ResolveBinary(name string) (string, error) {
	e, err := s.repo.LookupPlugin(name)
	if err != nil {
		return "", err
	}
	return e.Binary, nil
}

// ListPlugins returns all registered plugins with status information.
func (s *PluginService) ListPlugins() ([]PluginInfo, error) {
	reg, err := s.repo.LoadPluginRegistry()
	if err != nil {
		return nil, err
	}

	names := reg.Names()
	result := make([]PluginInfo, 0, len(names))
	for _, name := range names {
		cfg := reg.Analyzers[name]
		info := PluginInfo{
			Name:        name,
			Binary:      cfg.Binary,
			Description: cfg.Description,
			Status:      "available",
		}

		if _, err := os.Stat(cfg.Binary); err != nil {
			info.Status = "missing"
		}

		result = append(result, info)
	}

	return result, nil
}

// ValidatePlugin checks the binary and, when a loader is set, starts it and asks the
// analyzer for its name.
func (s *PluginService) ValidatePlugin(name string) (*PluginCheck, error) {
	cfg, err := s.repo.LookupPlugin(name)
	if err != nil {
		return nil, err
	}

	result := &PluginCheck{Name: name}

	info, err := os.Stat(cfg.Binary)
	if err != nil {
		result.Error = fmt.Sprintf("binary not found: %s", cfg.Binary)
		return result, nil
	}
	if info.Mode()&0111 == 0 {
		result.Error = "binary is not executable"
		return result, nil
	}

	if s.loader != nil {
		start := time.Now()
		analyzer, err := s.loader.Load(cfg.Binary)
		if err != nil {
			result.Error = err.Error()
			return result, nil
		}
		analyzerName, err := analyzer.Name()
		if err != nil {
			result.Error = fmt.Sprintf("analyzer did not respond: %v", err)
			return result, nil
		}
		result.Analyzer = analyzerName
		result.Latency = time.Since(start).Round(time.Millisecond).String()
	}

	result.Valid = true
	return result, nil
}
