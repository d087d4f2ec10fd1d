// Package mcp exposes the VisionQA MCP server for embedding in other Go programs.
package mcp

import (
	"log/slog"

	infra "github.com/ultrapreps/visionqa/internal/infrastructure/mcp"
)

// Server serves the VisionQA validation tools over MCP.
type Server = infra.Server

// NewServer wires a server for the workspace at root. A nil logger uses slog.Default.
func NewServer(root string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return infra.NewServer(root, logger)
}
