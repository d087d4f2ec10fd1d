package plugin

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestLoader_Full(t *testing.T) {
	tempDir := t.TempDir()

	pluginBin := filepath.Join(tempDir, "plugin.bin")
	cmd := exec.Command("go", "build", "-o", pluginBin, "../../cmd/visionqa-plugin-mock")
	if err := cmd.Run(); err != nil {
		t.Skipf("Skipping full plugin test: build failed: %v", err)
		return
	}

	l := NewLoader()
	defer l.Cleanup()

	analyzer, err := l.Load(pluginBin)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	name, err := analyzer.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name == "" {
		t.Error("expected analyzer name")
	}
	if len(l.Loaded()) != 1 {
		t.Errorf("expected one loaded plugin, got %v", l.Loaded())
	}

	l.Cleanup()
	if len(l.Loaded()) != 0 {
		t.Error("expected cleanup to forget plugins")
	}
}

func TestLoader_Init(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("Loader is nil")
	}
	l.Cleanup()

	if HandshakeConfig.MagicCookieKey != "VISIONQA_PLUGIN" {
		t.Errorf("wrong magic cookie key")
	}
	if _, ok := PluginMap[AnalyzerKey]; !ok {
		t.Errorf("analyzer missing from plugin map")
	}
}

func TestLoader_LoadError(t *testing.T) {
	l := NewLoader()
	_, err := l.Load("/invalid/path/999")
	if err == nil {
		t.Error("expected error for invalid plugin path")
	}
}

func TestLoader_LoadDirectory(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(t.TempDir())
	if err == nil {
		t.Error("expected error for directory path")
	}
}

func TestLoader_LoadNonExecutable(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "plugin")
	if err := os.WriteFile(filePath, []byte("not executable"), 0644); err != nil {
		t.Fatalf("create file: %v", err)
	}

	l := NewLoader()
	_, err := l.Load(filePath)
	if err == nil {
		t.Error("expected error for non-executable file")
	}
}
