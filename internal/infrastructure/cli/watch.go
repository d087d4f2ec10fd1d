package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/internal/infrastructure/watch"
)

var (
	watchFlags    contextFlags
	watchInclude  []string
	watchExclude  []string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Validate images as they appear in a directory",
	Long: `Watch follows a directory tree and reviews every image that is created or
rewritten. Each file's path relative to the directory is its asset ID, so a
regenerated image saved over its predecessor continues the same review until it
is approved or runs out of attempts.`,
	Example: `  visionqa watch ./out -t poster --school "Lincoln High" --primary "#002855" --secondary "#FFB81C"`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}

		c, err := watchFlags.request("").Context()
		if err != nil {
			return MapError(err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		cfg := services.Workspace.Config
		include := watchInclude
		if len(include) == 0 {
			include = cfg.Watch.Patterns
		}
		if len(include) == 0 {
			include = watch.DefaultIncludes
		}
		filter, err := watch.NewPatternFilter(dir, include, watchExclude)
		if err != nil {
			return MapError(err)
		}
		debounce := watchDebounce
		if debounce <= 0 {
			debounce = cfg.Watch.Debounce()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startMetrics(ctx, services)

		outcomes := make(chan watch.Outcome, 16)
		runner := watch.NewRunner(dir, c, services.Review, nil, outcomes)

		errCh := make(chan error, 1)
		go func() { errCh <- runner.Watch(ctx, debounce, filter) }()

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Watching %s for %s assets (Ctrl+C to stop)\n", dir, c.AssetType)
		for {
			select {
			case o := <-outcomes:
				printOutcome(out, o)
			case err := <-errCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
		}
	},
}

func printOutcome(w io.Writer, o watch.Outcome) {
	switch {
	case o.Err != nil && o.Record != nil && o.Record.IsTerminal():
		_, _ = fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("skip"), o.AssetID+" ("+o.Record.State+")")
	case o.Err != nil:
		_, _ = fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("error"), o.AssetID, o.Err)
	default:
		_, _ = fmt.Fprintf(w, "%s %s  score %.2f  %s (attempt %d)\n",
			verdict(o.Result), o.AssetID, o.Result.Score, o.Record.State, o.Record.Attempts)
	}
}

func init() {
	watchFlags.bind(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchInclude, "include", nil, "Patterns to validate (default from config, else common image types)")
	watchCmd.Flags().StringSliceVar(&watchExclude, "exclude", nil, "Patterns to ignore")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before a changed file is validated (default from config, else 500ms)")
	RootCmd.AddCommand(watchCmd)
}
