// Package report summarizes batch validation runs for later inspection.
package report

import (
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// Item is one asset's outcome within a batch.
type Item struct {
	Image                string       `json:"image"`
	AssetType            asset.Type   `json:"asset_type"`
	School               string       `json:"school"`
	Score                float64      `json:"score"`
	Passed               bool         `json:"passed"`
	RequiresRegeneration bool         `json:"requires_regeneration"`
	Source               asset.Source `json:"source"`
	Issues               []string     `json:"issues,omitempty"`
}

// BatchReport is the record of one batch run.
type BatchReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Items     []Item        `json:"items"`
}

// PassRate is passed over total, zero for an empty run.
func (r BatchReport) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// Regenerate lists the images that must be produced again.
func (r BatchReport) Regenerate() []string {
	var out []string
	for _, it := range r.Items {
		if it.RequiresRegeneration {
			out = append(out, it.Image)
		}
	}
	return out
}

// NewItem captures a result for the report.
func NewItem(image string, c asset.Context, res asset.ValidationResult) Item {
	return Item{
		Image:                image,
		AssetType:            c.AssetType,
		School:               c.SchoolName,
		Score:                res.Score,
		Passed:               res.Passed,
		RequiresRegeneration: res.RequiresRegeneration,
		Source:               res.Source,
		Issues:               res.Issues,
	}
}
