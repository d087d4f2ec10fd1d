package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/ultrapreps/visionqa/internal/infrastructure/wiring"
	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

type Server struct {
	mcpServer  *mcp.Server
	validation *application.ValidationService
	review     *application.ReviewService
	services   *wiring.AppServices
	root       string
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// NewServer wires services for root. A vision backend that cannot be built is logged and
// the server runs with simulated scoring.
func NewServer(root string, logger *slog.Logger) (*Server, error) {
	services, err := wiring.BuildAppServices(root, logger)
	if services == nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	if err != nil && logger != nil {
		logger.Warn("mcp server starting with simulated scoring", "error", err)
	}
	return NewServerWithServices(root, services), nil
}

// NewServerWithServices builds the MCP server over existing services.
func NewServerWithServices(root string, services *wiring.AppServices) *Server {
	info := mcp.ServerInfo{
		Name:    "visionqa",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("VisionQA MCP Server"),
			mcp.WithDescription("VisionQA scores AI-generated UltraPreps assets against school branding and quality rules."),
			mcp.WithWebsiteURL("https://github.com/ultrapreps/visionqa"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Validate generated images before publishing them. When a result requires regeneration, call visionqa_improvement_prompt with the original generation prompt and the result."),
		),
		validation: services.Validation,
		review:     services.Review,
		services:   services,
		root:       root,
	}

	s.registerTools()
	s.registerSchemaResource()
	s.registerReviewResource()
	return s
}

// Close releases the underlying services.
func (s *Server) Close() {
	if s.services != nil {
		s.services.Close()
	}
}

type HeroCardArgs struct {
	Image        string             `json:"image" jsonschema:"required,description=Image URL, data URI or local path"`
	Name         string             `json:"name" jsonschema:"required,description=Student-athlete name"`
	Sport        string             `json:"sport" jsonschema:"required,description=Sport, e.g. basketball"`
	School       string             `json:"school" jsonschema:"required,description=School name"`
	SchoolColors asset.SchoolColors `json:"school_colors" jsonschema:"required,description=School brand palette"`
}

type MascotArgs struct {
	Image        string             `json:"image" jsonschema:"required,description=Image URL, data URI or local path"`
	SchoolName   string             `json:"school_name" jsonschema:"required,description=School name"`
	MascotType   string             `json:"mascot_type" jsonschema:"required,description=Mascot animal or character, e.g. eagle"`
	SchoolColors asset.SchoolColors `json:"school_colors" jsonschema:"required,description=School brand palette"`
	IntendedPose string             `json:"intended_pose,omitempty" jsonschema:"description=Pose the mascot should strike"`
}

type BatchArgs struct {
	Items []application.AssetRequest `json:"items" jsonschema:"required,description=Images to validate with their contexts"`
}

type ImprovementArgs struct {
	OriginalPrompt string                 `json:"original_prompt" jsonschema:"required,description=Prompt that generated the image"`
	Result         asset.ValidationResult `json:"result" jsonschema:"required,description=Validation result returned by a validate tool"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool(toolValidateAsset).
		Description("Validate a generated image against its school branding and quality rules").
		Handler(s.handleValidateAsset)

	s.mcpServer.Tool(toolValidateHeroCard).
		Description("Validate a student-athlete hero card; hero cards must clear the stricter branding bar").
		Handler(s.handleValidateHeroCard)

	s.mcpServer.Tool(toolValidateMascot).
		Description("Validate a school mascot illustration").
		Handler(s.handleValidateMascot)

	s.mcpServer.Tool(toolBatchValidate).
		Description("Validate several images concurrently; results are returned in input order with a run summary").
		Handler(s.handleBatchValidate)

	s.mcpServer.Tool(toolImprovementPrompt).
		Description("Extend a generation prompt with corrections for the issues a validation found").
		Handler(s.handleImprovementPrompt)
}

func (s *Server) handleValidateAsset(ctx context.Context, args application.AssetRequest) (any, error) {
	image, c, err := args.Resolve()
	if err != nil {
		return nil, mcpErr(fmt.Sprintf("Invalid asset request: %v", err))
	}
	return s.validation.ValidateAsset(ctx, image, c), nil
}

func (s *Server) handleValidateHeroCard(ctx context.Context, args HeroCardArgs) (any, error) {
	image := asset.NewImage(args.Image)
	if image.Ref == "" {
		return nil, mcpErr("An image reference is required.")
	}
	req := application.HeroCardRequest{
		Name:         strings.TrimSpace(args.Name),
		Sport:        strings.TrimSpace(args.Sport),
		School:       strings.TrimSpace(args.School),
		SchoolColors: args.SchoolColors,
	}
	if err := req.Validate(); err != nil {
		return nil, mcpErr(fmt.Sprintf("Invalid hero card request: %v", err))
	}
	return s.validation.ValidateHeroCard(ctx, image, req), nil
}

func (s *Server) handleValidateMascot(ctx context.Context, args MascotArgs) (any, error) {
	image := asset.NewImage(args.Image)
	if image.Ref == "" {
		return nil, mcpErr("An image reference is required.")
	}
	req := application.MascotRequest{
		SchoolName:   strings.TrimSpace(args.SchoolName),
		MascotType:   strings.TrimSpace(args.MascotType),
		SchoolColors: args.SchoolColors,
		IntendedPose: args.IntendedPose,
	}
	if err := req.Validate(); err != nil {
		return nil, mcpErr(fmt.Sprintf("Invalid mascot request: %v", err))
	}
	return s.validation.ValidateMascot(ctx, image, req), nil
}

type batchResponse struct {
	RunID    string                   `json:"run_id"`
	Total    int                      `json:"total"`
	Passed   int                      `json:"passed"`
	PassRate float64                  `json:"pass_rate"`
	Results  []asset.ValidationResult `json:"results"`
}

func (s *Server) handleBatchValidate(ctx context.Context, args BatchArgs) (any, error) {
	if len(args.Items) == 0 {
		return nil, mcpErr("At least one item is required.")
	}
	items, err := application.BatchItems(args.Items)
	if err != nil {
		return nil, mcpErr(fmt.Sprintf("Invalid batch request: %v", err))
	}
	results, rep := s.validation.RunBatch(ctx, items)
	return batchResponse{
		RunID:    rep.RunID,
		Total:    rep.Total,
		Passed:   rep.Passed,
		PassRate: rep.PassRate(),
		Results:  results,
	}, nil
}

func (s *Server) handleImprovementPrompt(ctx context.Context, args ImprovementArgs) (string, error) {
	if strings.TrimSpace(args.OriginalPrompt) == "" {
		return "", mcpErr("The original prompt is required.")
	}
	return s.validation.GenerateImprovementPrompt(args.OriginalPrompt, args.Result), nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
