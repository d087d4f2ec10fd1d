package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestCLIHappyPath runs the built binary from dist/. Build it first with
// go build -o dist/visionqa ./cmd/visionqa.
func TestCLIHappyPath(t *testing.T) {
	distDir, _ := filepath.Abs("../../dist")
	bin := filepath.Join(distDir, "visionqa")
	if _, err := os.Stat(bin); err != nil {
		t.Skipf("binary not built: %v", err)
	}

	tempDir := t.TempDir()
	run := func(args ...string) (string, error) {
		cmd := exec.Command(bin, append([]string{"--project", tempDir}, args...)...)
		cmd.Dir = tempDir
		cmd.Env = append(os.Environ(), "VISIONQA_AI_PROVIDER=none")
		out, err := cmd.CombinedOutput()
		return string(out), err
	}
	mustRun := func(args ...string) string {
		out, err := run(args...)
		if err != nil {
			t.Fatalf("visionqa %v failed: %v\nOutput: %s", args, err, out)
		}
		return out
	}

	// 1. Single asset
	out := mustRun("validate", "hero.png", "--type", "poster", "--school", "Lincoln High", "--primary", "navy", "--secondary", "gold")
	if !strings.Contains(out, "Score:") {
		t.Errorf("unexpected validate output: %s", out)
	}

	// 2. Invalid input exits non-zero with a hint
	out, err := run("validate", "hero.png", "--type", "billboard", "--school", "Lincoln", "--primary", "navy", "--secondary", "gold")
	if err == nil || !strings.Contains(out, "Hint:") {
		t.Errorf("expected failure with hint, got err=%v output=%s", err, out)
	}

	// 3. Batch over a directory
	assets := filepath.Join(tempDir, "assets")
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.MkdirAll(assets, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(assets, name), []byte("img"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	out = mustRun("batch", assets, "--type", "banner", "--school", "Lincoln High", "--primary", "navy", "--secondary", "gold")
	if !strings.Contains(out, "/2 (") {
		t.Errorf("unexpected batch output: %s", out)
	}

	// 4. The run is in the history
	out = mustRun("reports")
	if strings.Contains(out, "No batch runs recorded.") {
		t.Errorf("batch run not recorded: %s", out)
	}

	// 5. Health check
	mustRun("doctor")
}
