package application_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/plugin"
	"github.com/ultrapreps/visionqa/pkg/storage"
)

type stubAnalyzer struct{ name string }

func (s stubAnalyzer) Name() (string, error) { return s.name, nil }
func (s stubAnalyzer) Analyze(*plugin.AnalyzeRequest) (*plugin.AnalyzeResponse, error) {
	return &plugin.AnalyzeResponse{Text: "{}"}, nil
}

type stubLoader struct {
	err   error
	paths []string
}

func (l *stubLoader) Load(path string) (plugin.Analyzer, error) {
	l.paths = append(l.paths, path)
	if l.err != nil {
		return nil, l.err
	}
	return stubAnalyzer{name: "llava-13b"}, nil
}

func fakeBinary(t *testing.T, root string) string {
	t.Helper()
	binPath := filepath.Join(root, "fake-plugin")
	if err := os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return binPath
}

func TestPluginService_RegisterAndList(t *testing.T) {
	root := t.TempDir()
	binPath := fakeBinary(t, root)

	repo := storage.NewFilesystemRepository(root)
	svc := application.NewPluginService(repo, nil)

	if err := svc.RegisterPlugin("test-plugin", binPath, "local llava"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	plugins, err := svc.ListPlugins()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}
	if plugins[0].Name != "test-plugin" || plugins[0].Description != "local llava" {
		t.Errorf("unexpected plugin %+v", plugins[0])
	}
	if plugins[0].Status != "available" {
		t.Errorf("expected status 'available', got %q", plugins[0].Status)
	}

	bin, err := svc.ResolveBinary("test-plugin")
	if err != nil || bin != binPath {
		t.Errorf("ResolveBinary = %q, %v", bin, err)
	}
}

func TestPluginService_RegisterErrors(t *testing.T) {
	root := t.TempDir()
	svc := application.NewPluginService(storage.NewFilesystemRepository(root), nil)

	nonExec := filepath.Join(root, "plain")
	_ = os.WriteFile(nonExec, []byte("x"), 0644)

	tests := []struct {
		name, plugin, binary string
	}{
		{"empty name", "", "/bin/sh"},
		{"path-like name", "bin/llava", "/bin/sh"},
		{"empty binary", "p", ""},
		{"missing binary", "p", filepath.Join(root, "nope")},
		{"directory", "p", root},
		{"not executable", "p", nonExec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.RegisterPlugin(tt.plugin, tt.binary, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPluginService_Unregister(t *testing.T) {
	root := t.TempDir()
	binPath := fakeBinary(t, root)

	svc := application.NewPluginService(storage.NewFilesystemRepository(root), nil)
	if err := svc.RegisterPlugin("test-plugin", binPath, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.UnregisterPlugin("test-plugin"); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}

	plugins, _ := svc.ListPlugins()
	if len(plugins) != 0 {
		t.Errorf("expected 0 plugins after unregister, got %d", len(plugins))
	}
	if err := svc.UnregisterPlugin("test-plugin"); !errors.Is(err, application.ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestPluginService_ListMissingBinary(t *testing.T) {
	root := t.TempDir()
	binPath := fakeBinary(t, root)

	svc := application.NewPluginService(storage.NewFilesystemRepository(root), nil)
	_ = svc.RegisterPlugin("gone", binPath, "")
	_ = os.Remove(binPath)

	plugins, _ := svc.ListPlugins()
	if len(plugins) != 1 || plugins[0].Status != "missing" {
		t.Errorf("expected missing status, got %+v", plugins)
	}

	check, err := svc.ValidatePlugin("gone")
	if err != nil {
		t.Fatal(err)
	}
	if check.Valid {
		t.Error("missing binary should not validate")
	}
}

func TestPluginService_ValidateWithLoader(t *testing.T) {
	root := t.TempDir()
	binPath := fakeBinary(t, root)
	loader := &stubLoader{}

	svc := application.NewPluginService(storage.NewFilesystemRepository(root), loader)
	_ = svc.RegisterPlugin("llava", binPath, "")

	check, err := svc.ValidatePlugin("llava")
	if err != nil {
		t.Fatal(err)
	}
	if !check.Valid || check.Analyzer != "llava-13b" || check.Latency == "" {
		t.Errorf("unexpected check %+v", check)
	}
	if len(loader.paths) != 1 || loader.paths[0] != binPath {
		t.Errorf("loader called with %v", loader.paths)
	}

	loader.err = errors.New("handshake failed")
	check, _ = svc.ValidatePlugin("llava")
	if check.Valid || check.Error != "handshake failed" {
		t.Errorf("expected load failure, got %+v", check)
	}

	if _, err := svc.ValidatePlugin("unknown"); err == nil {
		t.Error("expected error for unregistered plugin")
	}
}
