package asset

const (
	// QualityThreshold is the minimum score for an asset to pass.
	QualityThreshold = 0.8
	// BrandingThreshold is the stricter bar hero cards must clear to avoid regeneration.
	BrandingThreshold = 0.9
)

// Source records which path produced a ValidationResult.
type Source string

const (
	SourceVision Source = "vision"
	SourceMock   Source = "mock"
)

// BrandingCheck is the per-rule breakdown derived from a vision analysis.
type BrandingCheck struct {
	ColorsMatch         bool `json:"colors_match"`
	MascotAccurate      bool `json:"mascot_accurate"`
	SchoolIdentity      bool `json:"school_identity"`
	ProfessionalQuality bool `json:"professional_quality"`
}

// AllPassed reports whether every branding rule holds.
func (b BrandingCheck) AllPassed() bool {
	return b.ColorsMatch && b.MascotAccurate && b.SchoolIdentity && b.ProfessionalQuality
}

// Findings carries what the vision backend reported verbatim. It is informational
// and never feeds Issues.
type Findings struct {
	Issues    []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	Strengths []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
}

// ValidationResult is the decision for a single asset.
type ValidationResult struct {
	Passed               bool      `json:"passed" yaml:"passed"`
	Score                float64   `json:"score" yaml:"score"`
	Issues               []string  `json:"issues" yaml:"issues"`
	Suggestions          []string  `json:"suggestions" yaml:"suggestions"`
	RequiresRegeneration bool      `json:"requires_regeneration" yaml:"requires_regeneration"`
	Source               Source    `json:"source" yaml:"source"`
	Provider             string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Findings             *Findings `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// NeedsRegeneration applies the regeneration rule for an asset type: anything under
// the quality bar, and hero cards under the branding bar.
func NeedsRegeneration(t Type, score float64) bool {
	if score < QualityThreshold {
		return true
	}
	return t == TypeHeroCard && score < BrandingThreshold
}

// Passes reports whether a score clears the quality bar.
func Passes(score float64) bool {
	return score >= QualityThreshold
}

// ClampScore bounds a score to [0, 1].
func ClampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
