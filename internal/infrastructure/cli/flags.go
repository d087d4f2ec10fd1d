package cli

import (
	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

// contextFlags collects the asset context shared by validate, batch and watch.
type contextFlags struct {
	assetType string
	school    string
	primary   string
	secondary string
	accent    string
	mascot    string
	use       string
	audience  string
}

func (f *contextFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.assetType, "type", "t", "", "Asset type (herocard, mascot, poster, banner, profile)")
	fs.StringVar(&f.school, "school", "", "School name")
	f.bindColors(cmd)
	fs.StringVar(&f.mascot, "mascot", "", "Mascot the image should depict, e.g. eagle")
	fs.StringVar(&f.use, "use", "", "Intended use of the asset")
	fs.StringVar(&f.audience, "audience", "", "Target audience (student, parent, recruiter, public)")
}

func (f *contextFlags) bindColors(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.primary, "primary", "", "Primary school color (hex or name)")
	fs.StringVar(&f.secondary, "secondary", "", "Secondary school color (hex or name)")
	fs.StringVar(&f.accent, "accent", "", "Optional accent color")
}

func (f *contextFlags) colors() asset.SchoolColors {
	return asset.SchoolColors{Primary: f.primary, Secondary: f.secondary, Accent: f.accent}
}

func (f *contextFlags) request(image string) application.AssetRequest {
	return application.AssetRequest{
		Image:          image,
		AssetType:      f.assetType,
		SchoolName:     f.school,
		SchoolColors:   f.colors(),
		MascotType:     f.mascot,
		IntendedUse:    f.use,
		TargetAudience: f.audience,
	}
}
