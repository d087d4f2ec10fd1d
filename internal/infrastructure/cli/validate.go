package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

var (
	validateFlags  contextFlags
	validateJSON   bool
	validateStrict bool
	validateReview bool
	validateID     string
)

var validateCmd = &cobra.Command{
	Use:   "validate <image>",
	Short: "Validate one generated image against its school branding",
	Long: `Validate scores an image (URL, data URI or local file) against the school's
colors, mascot and the quality bar for its asset type.

With --review the result also advances the asset's review record, so repeated
validations of regenerated images count toward the attempt limit.`,
	Example: `  visionqa validate hero.png --type herocard --school "Lincoln High" --primary "#002855" --secondary "#FFB81C"
  visionqa validate https://cdn.example.com/eagle.png -t mascot --mascot eagle --school Lincoln --primary navy --secondary gold --review`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, c, err := validateFlags.request(args[0]).Resolve()
		if err != nil {
			return MapError(err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		if !validateReview {
			result := services.Validation.ValidateAsset(cmd.Context(), image, c)
			return finishResult(cmd, image.Ref, result, validateJSON, validateStrict)
		}

		rec, result, err := services.Review.Review(cmd.Context(), validateID, image, c)
		if err != nil {
			return MapError(fmt.Errorf("review %s: %w", image, err))
		}
		err = finishResult(cmd, image.Ref, result, validateJSON, validateStrict)
		if !validateJSON {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Review: %s (attempt %d)\n", rec.State, rec.Attempts)
		}
		return err
	},
}

func finishResult(cmd *cobra.Command, image string, result asset.ValidationResult, asJSON, strict bool) error {
	if asJSON {
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		renderResult(cmd.OutOrStdout(), image, result)
	}
	if strict && !result.Passed {
		return MapError(ErrAssetFailed)
	}
	return nil
}

func init() {
	validateFlags.bind(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit with status 2 when the asset does not pass")
	validateCmd.Flags().BoolVar(&validateReview, "review", false, "Record the result in the asset's review history")
	validateCmd.Flags().StringVar(&validateID, "id", "", "Asset ID for --review (defaults to the image reference)")
	RootCmd.AddCommand(validateCmd)
}
