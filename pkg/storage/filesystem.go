package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"
)

const VisionQADir = ".visionqa"
const ConfigFile = "config.yaml"
const ReviewsFile = "reviews.yaml"
const ReportsFile = "reports.jsonl"
const PluginsFile = "plugins.yaml"
const DeadLetterFile = "deadletters.jsonl"

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .visionqa directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, VisionQADir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	// Only direct children of .visionqa are allowed.
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, VisionQADir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", VisionQADir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, VisionQADir))
	return err == nil
}

// writeYAML marshals v into a file under .visionqa, creating the directory if needed.
func (r *FilesystemRepository) writeYAML(filename string, v any) error {
	path, err := r.ResolvePath(filename)
	if err != nil {
		return err
	}
	if err := r.Initialize(); err != nil {
		return err
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}

	// Write to a temp file first so readers never see a partial document.
	tmp := path + ".tmp"
	// G306: Use 0600 for files
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return os.Rename(tmp, path)
}

// readYAML loads a file under .visionqa into v. It reports false when the file is absent.
// Reads are retried to ride out concurrent writers.
func (r *FilesystemRepository) readYAML(filename string, v any) (bool, error) {
	retryer := retry.New[bool](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (bool, error) {
		path, err := r.ResolvePath(filename)
		if err != nil {
			return false, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, fmt.Errorf("failed to read %s: %w", filename, err)
		}

		if err := yaml.Unmarshal(data, v); err != nil {
			return false, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
		}
		return true, nil
	})
}
