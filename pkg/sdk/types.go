package sdk

import (
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

// AssetRequest is an image plus the context it is judged against.
type AssetRequest struct {
	Image          string             `json:"image"`
	AssetType      string             `json:"asset_type"`
	SchoolName     string             `json:"school_name"`
	SchoolColors   asset.SchoolColors `json:"school_colors"`
	MascotType     string             `json:"mascot_type,omitempty"`
	IntendedUse    string             `json:"intended_use,omitempty"`
	TargetAudience string             `json:"target_audience,omitempty"`
}

// HeroCardRequest describes a student-athlete hero card.
type HeroCardRequest struct {
	Image        string             `json:"image"`
	Name         string             `json:"name"`
	Sport        string             `json:"sport"`
	School       string             `json:"school"`
	SchoolColors asset.SchoolColors `json:"school_colors"`
}

// MascotRequest describes a mascot illustration.
type MascotRequest struct {
	Image        string             `json:"image"`
	SchoolName   string             `json:"school_name"`
	MascotType   string             `json:"mascot_type"`
	SchoolColors asset.SchoolColors `json:"school_colors"`
	IntendedPose string             `json:"intended_pose,omitempty"`
}

// BatchResult is the outcome of a batch validation. Results keep request order.
type BatchResult struct {
	RunID    string                   `json:"run_id"`
	Total    int                      `json:"total"`
	Passed   int                      `json:"passed"`
	PassRate float64                  `json:"pass_rate"`
	Results  []asset.ValidationResult `json:"results"`
}

// Regenerate returns the indexes of results that must be produced again.
func (b *BatchResult) Regenerate() []int {
	var out []int
	for i, r := range b.Results {
		if r.RequiresRegeneration {
			out = append(out, i)
		}
	}
	return out
}

// SchemaInfo describes the server's schema version and vision backend.
type SchemaInfo struct {
	SchemaVersion string     `json:"schema_version"`
	ServerVersion string     `json:"server_version"`
	Provider      string     `json:"provider"`
	Tools         []string   `json:"tools"`
	Thresholds    Thresholds `json:"thresholds"`
}

// Thresholds are the scores the server judges assets against.
type Thresholds struct {
	Quality  float64 `json:"quality"`
	Branding float64 `json:"branding"`
}

// ReviewSummary is the server's review book.
type ReviewSummary struct {
	Counts  map[string]int   `json:"counts"`
	Records []*review.Record `json:"records"`
}
