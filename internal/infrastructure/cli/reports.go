package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/storage"
)

var (
	reportsJSON  bool
	reportsLimit int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List past batch runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := workspaceRepo()
		if err != nil {
			return err
		}
		reports, err := repo.LoadReports()
		if err != nil {
			return err
		}
		if reportsLimit > 0 && len(reports) > reportsLimit {
			reports = reports[len(reports)-reportsLimit:]
		}
		if reportsJSON {
			return printJSON(cmd.OutOrStdout(), reports)
		}
		if len(reports) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No batch runs recorded.")
			return nil
		}

		columns := []table.Column{
			{Title: "Run", Width: 8},
			{Title: "Started", Width: 16},
			{Title: "Total", Width: 5},
			{Title: "Passed", Width: 6},
			{Title: "Rate", Width: 6},
			{Title: "Regen", Width: 5},
		}
		rows := make([]table.Row, 0, len(reports))
		for i := len(reports) - 1; i >= 0; i-- {
			rep := reports[i]
			rows = append(rows, table.Row{
				rep.RunID[:min(8, len(rep.RunID))],
				rep.StartedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", rep.Total),
				fmt.Sprintf("%d", rep.Passed),
				fmt.Sprintf("%.0f%%", rep.PassRate()*100),
				fmt.Sprintf("%d", len(rep.Regenerate())),
			})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), staticTable(columns, rows))
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one batch run; a unique run ID prefix is enough",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := workspaceRepo()
		if err != nil {
			return err
		}
		rep, err := repo.FindReport(args[0])
		if err != nil {
			return NewCLIError(err.Error(), "Run 'visionqa reports' to list run IDs", nil)
		}
		if reportsJSON {
			return printJSON(cmd.OutOrStdout(), rep)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n",
			titleStyle.Render("Run "+rep.RunID),
			rep.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rep.Duration.Round(time.Millisecond))
		renderBatch(cmd.OutOrStdout(), rep)
		return nil
	},
}

func workspaceRepo() (*storage.FilesystemRepository, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return storage.NewFilesystemRepository(root), nil
}

func init() {
	reportsCmd.PersistentFlags().BoolVar(&reportsJSON, "json", false, "Output in JSON format")
	reportsCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "Show only the most recent runs (0 for all)")
	reportsCmd.AddCommand(reportsShowCmd)
	RootCmd.AddCommand(reportsCmd)
}
