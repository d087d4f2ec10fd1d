package qa

import (
	"fmt"
	"strings"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// AnalysisSystemPrompt frames the model as a brand reviewer that answers in JSON.
const AnalysisSystemPrompt = "You are a meticulous brand and quality reviewer for high school sports marketing imagery. You respond with a single JSON object and nothing else."

// QualityRequirements are appended to every improvement prompt.
var QualityRequirements = []string{
	"Professional sports-marketing aesthetic",
	"High resolution with crisp, clean detail",
	"Accurate school branding and colors",
	"No AI artifacts, distortions, or malformed features",
}

// BuildAnalysisPrompt describes the asset and the reply format to the vision model.
func BuildAnalysisPrompt(c asset.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s image generated for %s.\n\n", c.AssetType, c.SchoolName)
	b.WriteString("Brand requirements:\n")
	fmt.Fprintf(&b, "- Primary color: %s\n", c.SchoolColors.Primary)
	fmt.Fprintf(&b, "- Secondary color: %s\n", c.SchoolColors.Secondary)
	if c.SchoolColors.Accent != "" {
		fmt.Fprintf(&b, "- Accent color: %s\n", c.SchoolColors.Accent)
	}
	if c.HasMascot() {
		fmt.Fprintf(&b, "- Mascot: %s\n", c.MascotType)
	}
	fmt.Fprintf(&b, "- Target audience: %s\n", c.TargetAudience)
	if c.IntendedUse != "" {
		fmt.Fprintf(&b, "- Intended use: %s\n", c.IntendedUse)
	}
	b.WriteString("\nFlag any AI artifacts, distortions, malformed hands or faces, garbled text, ")
	b.WriteString("or other unprofessional elements as issues. Flag content unsuitable for the audience as \"inappropriate\". ")
	b.WriteString("List what works well as strengths; mention \"athletic context\" when the image clearly shows sport or competition.\n\n")
	b.WriteString(`Return ONLY a JSON object with no markdown and no code fences:
{
  "colors_match": boolean,
  "quality_score": number between 0 and 1,
  "mascot_accurate": boolean,
  "professional": boolean,
  "issues": [string],
  "strengths": [string]
}`)
	return b.String()
}

// GenerateImprovementPrompt extends the original generation prompt with the fixes a
// validation asked for and the standing quality requirements.
func GenerateImprovementPrompt(originalPrompt string, result asset.ValidationResult) string {
	var b strings.Builder
	b.WriteString(originalPrompt)

	if len(result.Issues) > 0 {
		b.WriteString("\n\nCORRECTIONS:\n")
		for _, s := range result.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\nQUALITY REQUIREMENTS:\n")
	for _, req := range QualityRequirements {
		fmt.Fprintf(&b, "- %s\n", req)
	}
	return strings.TrimRight(b.String(), "\n")
}
