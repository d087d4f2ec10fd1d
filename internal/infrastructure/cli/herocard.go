package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

var (
	heroFlags  contextFlags
	heroName   string
	heroSport  string
	heroJSON   bool
	heroStrict bool
)

var herocardCmd = &cobra.Command{
	Use:   "herocard <image>",
	Short: "Validate a student-athlete hero card",
	Long: `Hero cards are held to the stricter branding bar: a card that passes but scores
below it is still sent back for regeneration, with cinematic guidance added.`,
	Example: `  visionqa herocard jordan.png --name "Jordan Reyes" --sport basketball --school "Lincoln High" --primary "#002855" --secondary "#FFB81C"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := asset.NewImage(args[0])
		if image.Ref == "" {
			return MapError(asset.ErrEmptyImage)
		}
		req := application.HeroCardRequest{
			Name:         strings.TrimSpace(heroName),
			Sport:        strings.TrimSpace(heroSport),
			School:       strings.TrimSpace(heroFlags.school),
			SchoolColors: heroFlags.colors(),
		}
		if err := req.Validate(); err != nil {
			return MapError(err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		result := services.Validation.ValidateHeroCard(cmd.Context(), image, req)
		return finishResult(cmd, image.Ref, result, heroJSON, heroStrict)
	},
}

func init() {
	herocardCmd.Flags().StringVar(&heroName, "name", "", "Student-athlete name")
	herocardCmd.Flags().StringVar(&heroSport, "sport", "", "Sport, e.g. basketball")
	herocardCmd.Flags().StringVar(&heroFlags.school, "school", "", "School name")
	heroFlags.bindColors(herocardCmd)
	herocardCmd.Flags().BoolVar(&heroJSON, "json", false, "Output in JSON format")
	herocardCmd.Flags().BoolVar(&heroStrict, "strict", false, "Exit with status 2 when the card does not pass")
	RootCmd.AddCommand(herocardCmd)
}
