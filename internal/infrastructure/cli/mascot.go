package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

var (
	mascotFlags  contextFlags
	mascotPose   string
	mascotJSON   bool
	mascotStrict bool
)

var mascotCmd = &cobra.Command{
	Use:     "mascot <image>",
	Short:   "Validate a school mascot illustration",
	Example: `  visionqa mascot eagle.png --mascot eagle --school "Lincoln High" --primary navy --secondary gold --pose "wings spread"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := asset.NewImage(args[0])
		if image.Ref == "" {
			return MapError(asset.ErrEmptyImage)
		}
		req := application.MascotRequest{
			SchoolName:   strings.TrimSpace(mascotFlags.school),
			MascotType:   strings.TrimSpace(mascotFlags.mascot),
			SchoolColors: mascotFlags.colors(),
			IntendedPose: mascotPose,
		}
		if err := req.Validate(); err != nil {
			return MapError(err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		result := services.Validation.ValidateMascot(cmd.Context(), image, req)
		return finishResult(cmd, image.Ref, result, mascotJSON, mascotStrict)
	},
}

func init() {
	mascotCmd.Flags().StringVar(&mascotFlags.school, "school", "", "School name")
	mascotCmd.Flags().StringVar(&mascotFlags.mascot, "mascot", "", "Mascot animal or character, e.g. eagle")
	mascotFlags.bindColors(mascotCmd)
	mascotCmd.Flags().StringVar(&mascotPose, "pose", "", "Pose the mascot should strike")
	mascotCmd.Flags().BoolVar(&mascotJSON, "json", false, "Output in JSON format")
	mascotCmd.Flags().BoolVar(&mascotStrict, "strict", false, "Exit with status 2 when the mascot does not pass")
	RootCmd.AddCommand(mascotCmd)
}
