package mcp_test

import (
	"testing"

	"github.com/ultrapreps/visionqa/pkg/mcp"
)

func TestNewServer(t *testing.T) {
	t.Setenv("VISIONQA_AI_PROVIDER", "none")

	s, err := mcp.NewServer(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if s == nil {
		t.Fatal("expected server instance")
	}
	s.Close()
}
