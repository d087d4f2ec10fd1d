package qa

import (
	"strings"
	"testing"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

func containsFold(items []string, needle string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), needle) {
			return true
		}
	}
	return false
}

func TestMockScorer_RangeWithRealRandomness(t *testing.T) {
	m := NewMockScorer(nil)
	for i := 0; i < 500; i++ {
		c := heroContext()
		if i%2 == 0 {
			c = mascotContext()
		}
		r := m.Score(c)
		if r.Score < MockScoreMin || r.Score > MockScoreMax {
			t.Fatalf("score %v outside mock range", r.Score)
		}
		if r.Passed != (r.Score >= asset.QualityThreshold) {
			t.Fatalf("passed/score mismatch: %+v", r)
		}
		if r.Source != asset.SourceMock {
			t.Fatalf("Source = %s", r.Source)
		}
	}
}

func TestMockScorer_Thresholds(t *testing.T) {
	tests := []struct {
		name         string
		ctx          asset.Context
		score        float64
		wantPassed   bool
		wantRegen    bool
		wantColor    bool
		wantMascot   bool
		wantNoIssues bool
	}{
		{"mascot low", mascotContext(), 0.72, false, true, true, true, false},
		{"mascot mid", mascotContext(), 0.87, true, false, false, true, false},
		{"mascot high", mascotContext(), 0.93, true, false, false, false, true},
		{"hero 0.82", heroContext(), 0.82, true, true, true, false, false},
		{"hero 0.85", heroContext(), 0.85, true, true, false, false, true},
		{"hero 0.95", heroContext(), 0.95, true, false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewMockScorer(FixedScore(tt.score)).Score(tt.ctx)
			if !approx(r.Score, tt.score) {
				t.Fatalf("Score = %v, want %v", r.Score, tt.score)
			}
			if r.Passed != tt.wantPassed || r.RequiresRegeneration != tt.wantRegen {
				t.Errorf("passed=%v regen=%v, want %v %v", r.Passed, r.RequiresRegeneration, tt.wantPassed, tt.wantRegen)
			}
			if containsFold(r.Issues, "color") != tt.wantColor || containsFold(r.Suggestions, "color") != tt.wantColor {
				t.Errorf("color feedback mismatch: %+v", r)
			}
			if containsFold(r.Issues, "mascot") != tt.wantMascot || containsFold(r.Suggestions, "mascot") != tt.wantMascot {
				t.Errorf("mascot feedback mismatch: %+v", r)
			}
			if tt.wantNoIssues && (len(r.Issues) != 0 || len(r.Suggestions) != 0) {
				t.Errorf("expected no feedback: %+v", r)
			}
		})
	}
}

func TestMockScorer_ClampsSource(t *testing.T) {
	r := NewMockScorer(func() float64 { return 4 }).Score(heroContext())
	if r.Score != MockScoreMax {
		t.Errorf("Score = %v, want %v", r.Score, MockScoreMax)
	}
	r = NewMockScorer(func() float64 { return -1 }).Score(heroContext())
	if r.Score != MockScoreMin {
		t.Errorf("Score = %v, want %v", r.Score, MockScoreMin)
	}
}
