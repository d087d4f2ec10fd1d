package qa

import (
	"errors"
	"testing"
)

func TestParseAnalysis_Full(t *testing.T) {
	text := `{"colors_match": true, "quality_score": 0.92, "mascot_accurate": true, "professional": true,
"issues": ["slight banding in sky"], "strengths": ["Strong athletic context", " "]}`

	a, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if !a.ColorsMatch || !a.MascotAccurate || !a.Professional {
		t.Errorf("flags not decoded: %+v", a)
	}
	if a.QualityScore != 0.92 {
		t.Errorf("QualityScore = %v, want 0.92", a.QualityScore)
	}
	if len(a.Issues) != 1 || len(a.Strengths) != 1 {
		t.Errorf("blank entries should be dropped: %+v", a)
	}
}

func TestParseAnalysis_Defaults(t *testing.T) {
	a, err := ParseAnalysis(`{}`)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.ColorsMatch || a.MascotAccurate || a.Professional {
		t.Errorf("booleans should default to false: %+v", a)
	}
	if a.QualityScore != DefaultQualityScore {
		t.Errorf("QualityScore = %v, want %v", a.QualityScore, DefaultQualityScore)
	}
	if a.Issues == nil || len(a.Issues) != 0 || a.Strengths == nil || len(a.Strengths) != 0 {
		t.Errorf("lists should default to empty: %+v", a)
	}
}

func TestParseAnalysis_NullsAreDefaults(t *testing.T) {
	a, err := ParseAnalysis(`{"colors_match": null, "quality_score": null, "issues": null}`)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.ColorsMatch || a.QualityScore != DefaultQualityScore || len(a.Issues) != 0 {
		t.Errorf("nulls should take defaults: %+v", a)
	}
}

func TestParseAnalysis_FencedAndWrapped(t *testing.T) {
	tests := []string{
		"```json\n{\"colors_match\": true}\n```",
		"Here is my analysis:\n{\"colors_match\": true}\nLet me know if you need more.",
	}
	for _, text := range tests {
		a, err := ParseAnalysis(text)
		if err != nil {
			t.Fatalf("ParseAnalysis(%q): %v", text, err)
		}
		if !a.ColorsMatch {
			t.Errorf("ColorsMatch not decoded from %q", text)
		}
	}
}

func TestParseAnalysis_ClampsQuality(t *testing.T) {
	a, err := ParseAnalysis(`{"quality_score": 7.5}`)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.QualityScore != 1 {
		t.Errorf("QualityScore = %v, want 1", a.QualityScore)
	}
	a, _ = ParseAnalysis(`{"quality_score": -3}`)
	if a.QualityScore != 0 {
		t.Errorf("QualityScore = %v, want 0", a.QualityScore)
	}
}

func TestParseAnalysis_Unparseable(t *testing.T) {
	tests := map[string]string{
		"prose":        "The image looks great!",
		"empty":        "",
		"wrong type":   `{"colors_match": "yes"}`,
		"string score": `{"quality_score": "0.9"}`,
		"bad items":    `{"issues": [1, 2]}`,
		"broken":       `{"colors_match": true,`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAnalysis(text)
			if !errors.Is(err, ErrUnparseableAnalysis) {
				t.Errorf("expected ErrUnparseableAnalysis, got %v", err)
			}
		})
	}
}
