package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ultrapreps/visionqa/internal/infrastructure/watch"
	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/plugin"
)

// ExitAssetFailed is the exit code for --strict runs where an asset failed validation.
const ExitAssetFailed = 2

// ErrAssetFailed reports that one or more assets did not pass.
var ErrAssetFailed = errors.New("asset failed validation")

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var patternErr *watch.PatternError
	if errors.As(err, &patternErr) {
		return NewCLIError(patternErr.Error(), "Patterns use doublestar syntax, e.g. '**/*.png' or 'heroes/*.{jpg,png}'", err)
	}

	switch {
	case errors.Is(err, ErrAssetFailed):
		e := NewCLIError("asset failed validation", "Run 'visionqa improve' with the result to build a corrected generation prompt", err)
		e.ExitCode = ExitAssetFailed
		return e
	case errors.Is(err, asset.ErrUnknownAssetType):
		return NewCLIError("unknown asset type", "Use one of: "+typeList(), err)
	case errors.Is(err, asset.ErrUnknownAudience):
		return NewCLIError("unknown target audience", "Use one of: student, parent, recruiter, public", err)
	case errors.Is(err, asset.ErrMissingSchool):
		return NewCLIError("school name is required", "Pass --school", err)
	case errors.Is(err, asset.ErrMissingColors):
		return NewCLIError("school colors are required", "Pass --primary and --secondary (hex codes or color names)", err)
	case errors.Is(err, asset.ErrEmptyImage):
		return NewCLIError("image reference is empty", "Pass an image URL, data URI or local file path", err)
	case errors.Is(err, application.ErrReviewClosed):
		return NewCLIError("review is closed", "Run 'visionqa review reopen <asset-id>' to start a new review round", err)
	case errors.Is(err, application.ErrReviewNotFound):
		return NewCLIError("review not found", "Run 'visionqa review list' to see reviewed assets", err)
	case errors.Is(err, application.ErrPluginNotFound):
		return NewCLIError("plugin not registered", "Run 'visionqa plugin list' to see registered analyzers", err)
	case errors.Is(err, plugin.ErrInvalidName):
		return NewCLIError("invalid plugin name", "Use letters, digits, '-' and '_', starting with a letter or digit", err)
	}

	return err
}

func typeList() string {
	types := asset.AllTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
