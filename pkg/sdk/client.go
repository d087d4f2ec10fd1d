package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/mcp-go/client"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// Tool names served by the VisionQA MCP server.
const (
	ToolValidateAsset     = "visionqa_validate_asset"
	ToolValidateHeroCard  = "visionqa_validate_hero_card"
	ToolValidateMascot    = "visionqa_validate_mascot"
	ToolBatchValidate     = "visionqa_batch_validate"
	ToolImprovementPrompt = "visionqa_improvement_prompt"

	SchemaURI  = "visionqa://schema"
	ReviewsURI = "visionqa://reviews"
)

// Client is a typed Go client for the VisionQA MCP server.
type Client struct {
	mcp      *client.Client
	retryCfg retry.Config
	timeout  time.Duration
}

// NewClient creates a new SDK client wrapping the given MCP transport.
func NewClient(transport client.Transport, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Client{
		mcp:     client.New(transport, client.WithTimeout(o.timeout)),
		timeout: o.timeout,
		retryCfg: retry.Config{
			MaxAttempts:   o.maxAttempts,
			InitialDelay:  o.initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Initialize performs the MCP initialize handshake.
func (c *Client) Initialize(ctx context.Context) (*client.ServerInfo, error) {
	return c.mcp.Initialize(ctx)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// call invokes a tool with retry. Tool errors are returned without retrying.
func (c *Client) call(ctx context.Context, tool string, args any) (*client.ToolResult, error) {
	params, err := toArgs(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", tool, err)
	}

	r := retry.New[*client.ToolResult](c.retryCfg)
	result, err := r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
		return c.mcp.CallTool(ctx, tool, params)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, &ToolError{Tool: tool, Message: msg}
	}
	return result, nil
}

// toArgs converts a request struct to the argument map CallTool sends, keeping the
// struct's JSON field names.
func toArgs(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// unmarshalText extracts Content[0].Text from a tool result and unmarshals it as JSON.
func unmarshalText[T any](result *client.ToolResult) (*T, error) {
	text, err := textResult(result)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &v, nil
}

// textResult extracts Content[0].Text from a tool result.
func textResult(result *client.ToolResult) (string, error) {
	if len(result.Content) == 0 {
		return "", ErrNoContent
	}
	return result.Content[0].Text, nil
}

func readJSONResource[T any](ctx context.Context, c *Client, uri string) (*T, error) {
	rc, err := c.mcp.ReadResource(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", uri, err)
	}
	var v T
	if err := json.Unmarshal([]byte(rc.Text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", uri, err)
	}
	return &v, nil
}

// --- Schema ---

// GetSchema reads the visionqa://schema resource.
func (c *Client) GetSchema(ctx context.Context) (*SchemaInfo, error) {
	return readJSONResource[SchemaInfo](ctx, c, SchemaURI)
}

// Compatible checks if the server schema is compatible with this SDK version.
// Returns nil if compatible, error with details if not.
func (c *Client) Compatible(ctx context.Context) error {
	info, err := c.GetSchema(ctx)
	if err != nil {
		return fmt.Errorf("check compatibility: %w", err)
	}
	serverMajor := majorVersion(info.SchemaVersion)
	if serverMajor != SupportedSchemaMajor {
		return fmt.Errorf("incompatible schema: server=%s (major %s), sdk supports major %s",
			info.SchemaVersion, serverMajor, SupportedSchemaMajor)
	}
	return nil
}

// majorVersion extracts the major version from a semver string.
func majorVersion(v string) string {
	for i, ch := range v {
		if ch == '.' {
			return v[:i]
		}
	}
	return v
}

// --- Validation ---

// ValidateAsset scores one image against its context.
func (c *Client) ValidateAsset(ctx context.Context, req AssetRequest) (*asset.ValidationResult, error) {
	result, err := c.call(ctx, ToolValidateAsset, req)
	if err != nil {
		return nil, err
	}
	return unmarshalText[asset.ValidationResult](result)
}

// ValidateHeroCard validates a hero card against the stricter branding bar.
func (c *Client) ValidateHeroCard(ctx context.Context, req HeroCardRequest) (*asset.ValidationResult, error) {
	result, err := c.call(ctx, ToolValidateHeroCard, req)
	if err != nil {
		return nil, err
	}
	return unmarshalText[asset.ValidationResult](result)
}

// ValidateMascot validates a mascot illustration.
func (c *Client) ValidateMascot(ctx context.Context, req MascotRequest) (*asset.ValidationResult, error) {
	result, err := c.call(ctx, ToolValidateMascot, req)
	if err != nil {
		return nil, err
	}
	return unmarshalText[asset.ValidationResult](result)
}

// BatchValidate validates many images in one call.
func (c *Client) BatchValidate(ctx context.Context, items []AssetRequest) (*BatchResult, error) {
	result, err := c.call(ctx, ToolBatchValidate, struct {
		Items []AssetRequest `json:"items"`
	}{Items: items})
	if err != nil {
		return nil, err
	}
	return unmarshalText[BatchResult](result)
}

// ImprovementPrompt extends a generation prompt with the corrections a result calls for.
func (c *Client) ImprovementPrompt(ctx context.Context, originalPrompt string, res asset.ValidationResult) (string, error) {
	result, err := c.call(ctx, ToolImprovementPrompt, struct {
		OriginalPrompt string                 `json:"original_prompt"`
		Result         asset.ValidationResult `json:"result"`
	}{OriginalPrompt: originalPrompt, Result: res})
	if err != nil {
		return "", err
	}
	return textResult(result)
}

// --- Reviews ---

// Reviews reads the visionqa://reviews resource.
func (c *Client) Reviews(ctx context.Context) (*ReviewSummary, error) {
	return readJSONResource[ReviewSummary](ctx, c, ReviewsURI)
}
