package mcp

import (
	"context"
	"encoding/json"
	"sort"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

const (
	schemaURI  = "visionqa://schema"
	reviewsURI = "visionqa://reviews"
)

const (
	toolValidateAsset     = "visionqa_validate_asset"
	toolValidateHeroCard  = "visionqa_validate_hero_card"
	toolValidateMascot    = "visionqa_validate_mascot"
	toolBatchValidate     = "visionqa_batch_validate"
	toolImprovementPrompt = "visionqa_improvement_prompt"
)

// thresholds are the scores the tools judge against, so clients can explain a verdict.
type thresholds struct {
	Quality  float64 `json:"quality"`
	Branding float64 `json:"branding"`
}

type schemaResponse struct {
	SchemaVersion string     `json:"schema_version"`
	ServerVersion string     `json:"server_version"`
	Provider      string     `json:"provider"`
	Tools         []string   `json:"tools"`
	Thresholds    thresholds `json:"thresholds"`
}

// toolNames lists the registered tools, sorted.
func (s *Server) toolNames() []string {
	tools := s.mcpServer.Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(schemaURI).
		Name(schemaURI).
		Description("MCP tool schema version, active vision backend, tools and scoring thresholds").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			provider := s.validation.ProviderID()
			if provider == "" {
				provider = "mock"
			}
			return jsonResource(schemaURI, schemaResponse{
				SchemaVersion: SchemaVersion,
				ServerVersion: Version,
				Provider:      provider,
				Tools:         s.toolNames(),
				Thresholds: thresholds{
					Quality:  asset.QualityThreshold,
					Branding: asset.BrandingThreshold,
				},
			})
		})
}

type reviewsResponse struct {
	Counts  map[string]int   `json:"counts"`
	Records []*review.Record `json:"records"`
}

func (s *Server) registerReviewResource() {
	s.mcpServer.Resource(reviewsURI).
		Name(reviewsURI).
		Description("Review records for assets validated in this workspace").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			records, err := s.review.List("")
			if err != nil {
				return nil, mcpErr("Unable to load review records.")
			}
			counts, err := s.review.Counts()
			if err != nil {
				return nil, mcpErr("Unable to load review records.")
			}
			if records == nil {
				records = []*review.Record{}
			}
			return jsonResource(reviewsURI, reviewsResponse{Counts: counts, Records: records})
		})
}

func jsonResource(uri string, v any) (*mcplib.ResourceContent, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcplib.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
