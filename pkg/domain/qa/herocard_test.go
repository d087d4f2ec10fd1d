package qa

import (
	"testing"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

func TestApplyHeroCardAdvice(t *testing.T) {
	tests := []struct {
		name   string
		result asset.ValidationResult
		want   bool
	}{
		{"passed below branding bar", asset.ValidationResult{Passed: true, Score: 0.82, RequiresRegeneration: true}, true},
		{"passed above branding bar", asset.ValidationResult{Passed: true, Score: 0.95}, false},
		{"failed", asset.ValidationResult{Passed: false, Score: 0.7, RequiresRegeneration: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.result
			got := ApplyHeroCardAdvice(tt.result)
			has := len(got.Suggestions) > 0 && got.Suggestions[len(got.Suggestions)-1] == CinematicSuggestion
			if has != tt.want {
				t.Errorf("cinematic suggestion = %v, want %v", has, tt.want)
			}
			if got.Passed != original.Passed || got.RequiresRegeneration != original.RequiresRegeneration {
				t.Error("advice must not change the decision")
			}
		})
	}
}

func TestApplyHeroCardAdvice_DoesNotAlias(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "first"
	r := asset.ValidationResult{Passed: true, Score: 0.85, Suggestions: base}
	_ = ApplyHeroCardAdvice(r)
	if len(r.Suggestions) != 1 || base[:2][1] == CinematicSuggestion {
		t.Error("caller's suggestions slice was modified")
	}
}
