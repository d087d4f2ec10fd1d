package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes the root command against a workspace directory with simulated
// scoring and returns what the command wrote to stdout.
func runCLI(t *testing.T, dir string, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VISIONQA_AI_PROVIDER", "none")
	t.Setenv("VISIONQA_AI_MODEL", "")
	resetFlags(RootCmd)
	t.Cleanup(func() { resetFlags(RootCmd) })

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	RootCmd.SetIn(stdin)
	RootCmd.SetArgs(append([]string{"--project", dir}, args...))

	err := RootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default. Cobra commands are package globals, so
// values would otherwise leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

var schoolFlags = []string{"--school", "Lincoln High", "--primary", "#002855", "--secondary", "#FFB81C"}

func withSchool(args ...string) []string {
	return append(args, schoolFlags...)
}
