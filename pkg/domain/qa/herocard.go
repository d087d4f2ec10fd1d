package qa

import "github.com/ultrapreps/visionqa/pkg/domain/asset"

// CinematicSuggestion is the advisory note for hero cards that pass but miss the
// branding bar.
const CinematicSuggestion = "Push toward a more cinematic aesthetic: dramatic lighting, depth of field, and a dynamic hero pose"

// ApplyHeroCardAdvice appends CinematicSuggestion when a hero card passed below the
// branding threshold. Passed and RequiresRegeneration are left untouched.
func ApplyHeroCardAdvice(result asset.ValidationResult) asset.ValidationResult {
	if result.Passed && result.Score < asset.BrandingThreshold {
		suggestions := make([]string, 0, len(result.Suggestions)+1)
		suggestions = append(suggestions, result.Suggestions...)
		result.Suggestions = append(suggestions, CinematicSuggestion)
	}
	return result
}
