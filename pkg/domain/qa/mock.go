package qa

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// Mock score range and the thresholds below which it adds feedback.
const (
	MockScoreMin        = 0.7
	MockScoreMax        = 1.0
	MockColorThreshold  = 0.85
	MockMascotThreshold = 0.9
)

// RandomSource returns values in [0, 1). It must be safe for concurrent use when the
// scorer is shared across goroutines.
type RandomSource func() float64

// MockScorer produces plausible results without a vision backend. The score is
// random; the feedback it triggers is fixed by threshold.
type MockScorer struct {
	random RandomSource
}

// NewMockScorer creates a scorer. A nil source uses math/rand/v2's global generator.
func NewMockScorer(random RandomSource) *MockScorer {
	if random == nil {
		random = rand.Float64
	}
	return &MockScorer{random: random}
}

// Score returns a mock decision for the context.
func (m *MockScorer) Score(c asset.Context) asset.ValidationResult {
	r := m.random()
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}
	score := math.Round((MockScoreMin+r*(MockScoreMax-MockScoreMin))*1e9) / 1e9

	issues := []string{}
	suggestions := []string{}
	if score < MockColorThreshold {
		issues = append(issues, "Color accuracy could be improved")
		suggestions = append(suggestions, fmt.Sprintf("Match the school colors more precisely: %s", c.SchoolColors))
	}
	if c.AssetType == asset.TypeMascot && score < MockMascotThreshold {
		issues = append(issues, "Mascot expression lacks energy")
		suggestions = append(suggestions, "Give the mascot a more energetic, confident expression")
	}

	return asset.ValidationResult{
		Passed:               asset.Passes(score),
		Score:                score,
		Issues:               issues,
		Suggestions:          suggestions,
		RequiresRegeneration: asset.NeedsRegeneration(c.AssetType, score),
		Source:               asset.SourceMock,
	}
}

// FixedScore returns a RandomSource that makes MockScorer produce the given score.
func FixedScore(score float64) RandomSource {
	r := (score - MockScoreMin) / (MockScoreMax - MockScoreMin)
	return func() float64 { return r }
}
