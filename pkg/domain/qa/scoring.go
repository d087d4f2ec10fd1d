package qa

import (
	"fmt"
	"math"
	"strings"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// Score weights. They sum to 1.0.
const (
	WeightColors       = 0.15
	WeightMascot       = 0.10
	WeightIdentity     = 0.10
	WeightProfessional = 0.05
	WeightQuality      = 0.40
	WeightAppropriate  = 0.10
	WeightMatches      = 0.10
)

// ContextCheck captures whether the content suits its intended use.
type ContextCheck struct {
	Appropriate bool
	Matches     bool
}

// DeriveBranding maps an analysis onto the branding rules. Mascot accuracy is
// vacuously true when the context names no mascot.
func DeriveBranding(a Analysis, c asset.Context) asset.BrandingCheck {
	mascot := true
	if c.HasMascot() {
		mascot = a.MascotAccurate
	}
	return asset.BrandingCheck{
		ColorsMatch:         a.ColorsMatch,
		MascotAccurate:      mascot,
		SchoolIdentity:      a.Professional,
		ProfessionalQuality: a.QualityScore >= asset.QualityThreshold,
	}
}

// DeriveContextCheck flags inappropriate content reported by the backend and, for hero
// cards only, requires a strength signalling athletic context.
func DeriveContextCheck(a Analysis, c asset.Context) ContextCheck {
	check := ContextCheck{
		Appropriate: !anyContains(a.Issues, "inappropriate"),
		Matches:     true,
	}
	if c.AssetType == asset.TypeHeroCard {
		check.Matches = anyContains(a.Strengths, "athletic")
	}
	return check
}

// Score applies the weighted formula and caps the result at 1.0.
func Score(b asset.BrandingCheck, qualityScore float64, cc ContextCheck) float64 {
	sum := WeightQuality * asset.ClampScore(qualityScore)
	if b.ColorsMatch {
		sum += WeightColors
	}
	if b.MascotAccurate {
		sum += WeightMascot
	}
	if b.SchoolIdentity {
		sum += WeightIdentity
	}
	if b.ProfessionalQuality {
		sum += WeightProfessional
	}
	if cc.Appropriate {
		sum += WeightAppropriate
	}
	if cc.Matches {
		sum += WeightMatches
	}
	// Weighted float sums land a few ulps off; round before comparing with thresholds.
	sum = math.Round(sum*1e9) / 1e9
	return math.Min(sum, 1.0)
}

// Evaluate turns a vision analysis into a decision for the given context.
func Evaluate(a Analysis, c asset.Context) asset.ValidationResult {
	branding := DeriveBranding(a, c)
	cc := DeriveContextCheck(a, c)
	score := Score(branding, a.QualityScore, cc)

	issues, suggestions := brandingFeedback(branding, a, c)
	if !cc.Appropriate {
		issues = append(issues, "Content was flagged as inappropriate")
		suggestions = append(suggestions, fmt.Sprintf("Remove the flagged elements so the image suits a %s audience", c.TargetAudience))
	}
	if !cc.Matches {
		issues = append(issues, "Hero card does not convey an athletic context")
		suggestions = append(suggestions, "Show the athlete in a sport-specific setting or action pose")
	}

	return asset.ValidationResult{
		Passed:               asset.Passes(score),
		Score:                score,
		Issues:               issues,
		Suggestions:          suggestions,
		RequiresRegeneration: asset.NeedsRegeneration(c.AssetType, score),
		Source:               asset.SourceVision,
		Findings: &asset.Findings{
			Issues:    a.Issues,
			Strengths: a.Strengths,
		},
	}
}

func brandingFeedback(b asset.BrandingCheck, a Analysis, c asset.Context) ([]string, []string) {
	issues := []string{}
	suggestions := []string{}

	if !b.ColorsMatch {
		issues = append(issues, "Colors do not match the school branding")
		suggestions = append(suggestions, fmt.Sprintf("Use the exact school colors: %s", colorList(c.SchoolColors)))
	}
	if !b.MascotAccurate {
		issues = append(issues, fmt.Sprintf("Mascot is not an accurate %s", c.MascotType))
		suggestions = append(suggestions, fmt.Sprintf("Make the mascot clearly recognizable as a %s", c.MascotType))
	}
	if !b.SchoolIdentity {
		issues = append(issues, "School identity is not clearly conveyed")
		suggestions = append(suggestions, fmt.Sprintf("Feature %s branding prominently and consistently", c.SchoolName))
	}
	if !b.ProfessionalQuality {
		issues = append(issues, fmt.Sprintf("Image quality %.2f is below the professional standard", a.QualityScore))
		suggestions = append(suggestions, "Increase resolution and refine fine detail; remove artifacts and distortions")
	}
	return issues, suggestions
}

func colorList(colors asset.SchoolColors) string {
	s := fmt.Sprintf("primary %s, secondary %s", colors.Primary, colors.Secondary)
	if colors.Accent != "" {
		s += fmt.Sprintf(", accent %s", colors.Accent)
	}
	return s
}

func anyContains(items []string, needle string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), needle) {
			return true
		}
	}
	return false
}
