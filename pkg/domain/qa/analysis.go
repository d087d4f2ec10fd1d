// Package qa scores generated assets against branding and quality rules.
package qa

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// DefaultQualityScore is used when the backend omits quality_score.
const DefaultQualityScore = 0.5

var ErrUnparseableAnalysis = errors.New("unparseable vision analysis")

const analysisSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "colors_match":    { "type": ["boolean", "null"] },
    "quality_score":   { "type": ["number", "null"] },
    "mascot_accurate": { "type": ["boolean", "null"] },
    "professional":    { "type": ["boolean", "null"] },
    "issues":    { "type": ["array", "null"], "items": { "type": "string" } },
    "strengths": { "type": ["array", "null"], "items": { "type": "string" } }
  }
}`

var analysisSchemaLoader = gojsonschema.NewStringLoader(analysisSchemaJSON)

// Analysis is the decoded vision backend payload with every field defaulted.
type Analysis struct {
	ColorsMatch    bool
	QualityScore   float64
	MascotAccurate bool
	Professional   bool
	Issues         []string
	Strengths      []string
}

type rawAnalysis struct {
	ColorsMatch    *bool    `json:"colors_match"`
	QualityScore   *float64 `json:"quality_score"`
	MascotAccurate *bool    `json:"mascot_accurate"`
	Professional   *bool    `json:"professional"`
	Issues         []string `json:"issues"`
	Strengths      []string `json:"strengths"`
}

// ParseAnalysis extracts the JSON object from a model reply, checks field types and
// applies safe defaults to anything missing: false for flags, DefaultQualityScore for
// the score, empty lists. Quality scores outside [0, 1] are clamped.
func ParseAnalysis(text string) (Analysis, error) {
	payload := extractJSONObject(text)
	if payload == "" {
		return Analysis{}, fmt.Errorf("%w: no JSON object in response", ErrUnparseableAnalysis)
	}

	result, err := gojsonschema.Validate(analysisSchemaLoader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnparseableAnalysis, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return Analysis{}, fmt.Errorf("%w: %s", ErrUnparseableAnalysis, strings.Join(msgs, "; "))
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnparseableAnalysis, err)
	}

	a := Analysis{
		QualityScore: DefaultQualityScore,
		Issues:       nonBlank(raw.Issues),
		Strengths:    nonBlank(raw.Strengths),
	}
	if raw.ColorsMatch != nil {
		a.ColorsMatch = *raw.ColorsMatch
	}
	if raw.MascotAccurate != nil {
		a.MascotAccurate = *raw.MascotAccurate
	}
	if raw.Professional != nil {
		a.Professional = *raw.Professional
	}
	if raw.QualityScore != nil {
		a.QualityScore = asset.ClampScore(*raw.QualityScore)
	}
	return a, nil
}

// extractJSONObject strips code fences and surrounding prose and returns the outermost
// {...} span, or "" when there is none.
func extractJSONObject(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end <= start {
		return ""
	}
	return clean[start : end+1]
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
