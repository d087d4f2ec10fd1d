package sdk

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when a tool result contains no content items.
var ErrNoContent = errors.New("visionqa: empty tool result")

// ToolError is returned when the server rejects a tool call, usually because the
// request failed validation.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("visionqa: tool %s: %s", e.Tool, e.Message)
}
