package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

// Reviewer advances an asset's review with a fresh validation.
type Reviewer interface {
	Review(ctx context.Context, assetID string, image asset.Image, c asset.Context) (*review.Record, asset.ValidationResult, error)
}

// Outcome is what happened to one changed file.
type Outcome struct {
	AssetID string
	Record  *review.Record
	Result  asset.ValidationResult
	Err     error
}

// Runner turns change events into review rounds. Asset IDs are paths relative to Root,
// so a regenerated file replacing its predecessor continues the same review.
type Runner struct {
	Root     string
	Context  asset.Context
	reviewer Reviewer
	logger   *slog.Logger
	results  chan<- Outcome
}

// NewRunner creates a Runner. Outcomes are sent to results when it is non-nil.
func NewRunner(root string, c asset.Context, reviewer Reviewer, logger *slog.Logger, results chan<- Outcome) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Root: root, Context: c, reviewer: reviewer, logger: logger, results: results}
}

// Handle validates created or rewritten files. Removals and renames are ignored.
func (r *Runner) Handle(ctx context.Context, ev ChangeEvent) {
	if ev.ChangeType != "create" && ev.ChangeType != "write" {
		return
	}

	id := ev.Path
	if rel, err := filepath.Rel(r.Root, ev.Path); err == nil {
		id = filepath.ToSlash(rel)
	}

	rec, result, err := r.reviewer.Review(ctx, id, asset.NewImage(ev.Path), r.Context)
	switch {
	case errors.Is(err, application.ErrReviewClosed):
		r.logger.Debug("skipping closed review", "asset_id", id, "state", rec.State)
	case err != nil:
		r.logger.Error("review failed", "asset_id", id, "error", err)
	default:
		r.logger.Info("asset reviewed",
			"asset_id", id,
			"state", rec.State,
			"attempts", rec.Attempts,
			"score", result.Score,
		)
	}

	if r.results != nil {
		select {
		case r.results <- Outcome{AssetID: id, Record: rec, Result: result, Err: err}:
		case <-ctx.Done():
		}
	}
}

// Watch runs an FSWatcher over Root until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, debounce time.Duration, filter *PatternFilter) error {
	w, err := NewFSWatcher(debounce, filter, func(ev ChangeEvent) { r.Handle(ctx, ev) })
	if err != nil {
		return err
	}
	if err := w.WatchRecursive(r.Root); err != nil {
		_ = w.Close()
		return err
	}
	r.logger.Info("watching for assets", "root", r.Root, "asset_type", r.Context.AssetType)
	return w.Run(ctx)
}
