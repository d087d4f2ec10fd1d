package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/report"
)

var (
	batchFlags  contextFlags
	batchGlob   string
	batchJSON   bool
	batchStrict bool
	batchNoSave bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml | directory>",
	Short: "Validate many images concurrently",
	Long: `Batch validates every asset listed in a YAML manifest, or every image under a
directory matching --glob with the context given by flags. Results keep input
order and the run is appended to .visionqa/reports.jsonl.

Manifest format:

  defaults:
    asset_type: poster
    school_name: Lincoln High
    school_colors: {primary: "#002855", secondary: "#FFB81C"}
    target_audience: public
  assets:
    - image: posters/homecoming.png
    - image: https://cdn.example.com/eagle.png
      context: {asset_type: mascot, mascot_type: eagle}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := batchItems(args[0])
		if err != nil {
			return MapError(err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		results, rep := services.Validation.RunBatch(cmd.Context(), items)
		if !batchNoSave {
			if err := services.Workspace.Repo.AppendReport(rep); err != nil {
				slog.Warn("failed to save batch report", "run_id", rep.RunID, "error", err)
			}
		}

		if batchJSON {
			if err := printJSON(cmd.OutOrStdout(), batchOutput{Results: results, Report: rep}); err != nil {
				return err
			}
		} else {
			renderBatch(cmd.OutOrStdout(), rep)
		}

		if batchStrict && rep.Passed < rep.Total {
			return MapError(fmt.Errorf("%d of %d assets: %w", rep.Total-rep.Passed, rep.Total, ErrAssetFailed))
		}
		return nil
	},
}

type batchOutput struct {
	Results []asset.ValidationResult `json:"results"`
	Report  *report.BatchReport      `json:"report"`
}

func batchItems(path string) ([]application.BatchItem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return application.LoadManifest(path)
	}
	c, err := batchFlags.request("").Context()
	if err != nil {
		return nil, err
	}
	return application.ExpandGlob(path, batchGlob, c)
}

func init() {
	batchFlags.bind(batchCmd)
	batchCmd.Flags().StringVar(&batchGlob, "glob", application.DefaultImagePattern, "Image pattern when validating a directory")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Output in JSON format")
	batchCmd.Flags().BoolVar(&batchStrict, "strict", false, "Exit with status 2 when any asset does not pass")
	batchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "Do not append the run to the report history")
	RootCmd.AddCommand(batchCmd)
}
