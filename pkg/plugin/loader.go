package plugin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	goplugin "github.com/hashicorp/go-plugin"
	domainPlugin "github.com/ultrapreps/visionqa/pkg/domain/plugin"
)

var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "VISIONQA_PLUGIN",
	MagicCookieValue: "visionqa",
}

// AnalyzerKey is the name analyzers are dispensed under.
const AnalyzerKey = "analyzer"

var PluginMap = map[string]goplugin.Plugin{
	AnalyzerKey: &domainPlugin.AnalyzerPlugin{},
}

type Loader struct {
	mu      sync.Mutex
	plugins map[string]*goplugin.Client
}

func NewLoader() *Loader {
	return &Loader{
		plugins: make(map[string]*goplugin.Client),
	}
}

// ValidatePath checks that path names an executable regular file.
func ValidatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid plugin path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("plugin not found: %s", absPath)
		}
		return "", fmt.Errorf("cannot access plugin: %w", err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("plugin path is a directory: %s", absPath)
	}

	// Check executable permission on Unix systems
	if runtime.GOOS != "windows" {
		if info.Mode()&0111 == 0 {
			return "", fmt.Errorf("plugin is not executable: %s", absPath)
		}
	}
	return absPath, nil
}

// Load starts the plugin binary and returns its analyzer. The process lives until Cleanup.
func (l *Loader) Load(path string) (domainPlugin.Analyzer, error) {
	absPath, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(absPath), // #nosec G204 -- path validated above
		AllowedProtocols: []goplugin.Protocol{
			goplugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to create plugin client: %w", err)
	}

	raw, err := rpcClient.Dispense(AnalyzerKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	analyzer, ok := raw.(domainPlugin.Analyzer)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s does not serve an analyzer", absPath)
	}

	l.mu.Lock()
	if old, exists := l.plugins[absPath]; exists {
		old.Kill()
	}
	l.plugins[absPath] = client
	l.mu.Unlock()
	return analyzer, nil
}

// Loaded returns the paths of running plugins.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	paths := make([]string, 0, len(l.plugins))
	for p := range l.plugins {
		paths = append(paths, p)
	}
	return paths
}

func (l *Loader) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for path, client := range l.plugins {
		client.Kill()
		delete(l.plugins, path)
	}
}
