package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

var (
	reviewState string
	reviewJSON  bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect and manage asset review records",
	Long: `Every asset validated with 'validate --review' or under 'watch' has a review
record. It is approved on a passing validation, sent back for regeneration on a
failing one, and rejected once its attempts are used up.`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review records",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		records, err := services.Review.List(reviewState)
		if err != nil {
			return err
		}
		if reviewJSON {
			if records == nil {
				records = []*review.Record{}
			}
			return printJSON(cmd.OutOrStdout(), records)
		}
		if len(records) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No review records.")
			return nil
		}
		renderReviews(cmd.OutOrStdout(), records)

		counts, err := services.Review.Counts()
		if err == nil {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d approved, %d needs regeneration, %d rejected, %d pending\n",
				counts[review.StateApproved], counts[review.StateNeedsRegeneration],
				counts[review.StateRejected], counts[review.StatePending])
		}
		return nil
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <asset-id>",
	Short: "Show one review record with its last result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		rec, err := services.Review.Get(args[0])
		if err != nil {
			return MapError(err)
		}
		if reviewJSON {
			return printJSON(cmd.OutOrStdout(), rec)
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%s  %s, attempt %d\n", titleStyle.Render(rec.AssetID), rec.State, rec.Attempts)
		_, _ = fmt.Fprintf(out, "  %s for %s\n", rec.Context.AssetType, rec.Context.SchoolName)
		if rec.Last != nil {
			renderResult(out, rec.Image, *rec.Last)
		}
		return nil
	},
}

var reviewReopenCmd = &cobra.Command{
	Use:   "reopen <asset-id>",
	Short: "Return an approved or rejected asset to pending with a fresh attempt budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		rec, err := services.Review.Reopen(args[0])
		if err != nil {
			return MapError(err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Review %q reopened (%s).\n", rec.AssetID, rec.State)
		return err
	},
}

func init() {
	reviewListCmd.Flags().StringVar(&reviewState, "state", "", "Only show records in this state (pending, approved, needs_regeneration, rejected)")
	reviewCmd.PersistentFlags().BoolVar(&reviewJSON, "json", false, "Output in JSON format")
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewShowCmd)
	reviewCmd.AddCommand(reviewReopenCmd)
	RootCmd.AddCommand(reviewCmd)
}
