package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

// ErrReviewClosed is returned when validating an asset that was already approved or
// rejected. Reopen it first.
var ErrReviewClosed = errors.New("review is closed")

// ErrReviewNotFound is returned for asset IDs with no review record.
var ErrReviewNotFound = errors.New("review not found")

// ReviewStore persists review records.
type ReviewStore interface {
	LoadReviews() (*review.Book, error)
	SaveReviews(book *review.Book) error
}

// ReviewService drives assets through validation rounds until they are approved or
// run out of regeneration attempts.
type ReviewService struct {
	store       ReviewStore
	validator   *ValidationService
	dispatcher  *events.EventDispatcher
	logger      *slog.Logger
	maxAttempts int
	mu          sync.Mutex
}

// NewReviewService creates a ReviewService. maxAttempts below 1 uses the default.
func NewReviewService(store ReviewStore, validator *ValidationService, dispatcher *events.EventDispatcher, logger *slog.Logger, maxAttempts int) *ReviewService {
	if maxAttempts <= 0 {
		maxAttempts = review.DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		store:       store,
		validator:   validator,
		dispatcher:  dispatcher,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Review validates the asset's current image and advances its record. A record waiting
// for regeneration is resubmitted first; a failing result counts as an attempt and
// rejects the asset once attempts are used up.
func (s *ReviewService) Review(ctx context.Context, assetID string, image asset.Image, c asset.Context) (*review.Record, asset.ValidationResult, error) {
	if assetID == "" {
		assetID = image.Ref
	}
	if existing, err := s.Get(assetID); err == nil && existing.IsTerminal() {
		return existing, asset.ValidationResult{}, fmt.Errorf("%w: %s is %s", ErrReviewClosed, assetID, existing.State)
	}

	result := s.validator.ValidateAsset(ctx, image, c)

	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.store.LoadReviews()
	if err != nil {
		return nil, result, fmt.Errorf("load reviews: %w", err)
	}

	rec := book.Get(assetID)
	if rec == nil {
		rec = review.NewRecord(assetID, image.Ref, c)
	}
	if rec.IsTerminal() {
		return rec, result, fmt.Errorf("%w: %s is %s", ErrReviewClosed, assetID, rec.State)
	}
	rec.Image = image.Ref
	rec.Context = c

	var transitions [][2]string
	move := func(sm *review.StateMachine, event string) error {
		from := sm.Current()
		if err := sm.Transition(event); err != nil {
			return err
		}
		transitions = append(transitions, [2]string{from, sm.Current()})
		return nil
	}

	sm, err := review.NewStateMachine(rec.State, rec.AssetID, rec.Attempts, s.maxAttempts)
	if err != nil {
		return nil, result, err
	}
	if sm.Current() == review.StateNeedsRegeneration {
		if err := move(sm, review.EventResubmit); err != nil {
			return rec, result, err
		}
	}

	if result.Passed && !result.RequiresRegeneration {
		err = move(sm, review.EventApprove)
	} else {
		rec.Attempts++
		// Rebuild so the guards see the new attempt count.
		sm, err = review.NewStateMachine(sm.Current(), rec.AssetID, rec.Attempts, s.maxAttempts)
		if err == nil {
			err = move(sm, review.EventFlag)
		}
		if err == nil && rec.Attempts >= s.maxAttempts {
			err = move(sm, review.EventReject)
		}
	}
	if err != nil {
		return rec, result, err
	}

	last := result
	rec.Last = &last
	rec.State = sm.Current()
	rec.UpdatedAt = time.Now()
	book.Put(rec)

	if err := s.store.SaveReviews(book); err != nil {
		return rec, result, fmt.Errorf("save reviews: %w", err)
	}

	for _, tr := range transitions {
		s.logger.Info("review state changed", "asset_id", rec.AssetID, "from", tr[0], "to", tr[1], "attempts", rec.Attempts)
		if s.dispatcher != nil {
			if err := s.dispatcher.Dispatch(context.WithoutCancel(ctx), events.NewReviewStateChanged(rec.AssetID, tr[0], tr[1], rec.Attempts)); err != nil {
				s.logger.Warn("event handler failed", "event", events.EventTypeReviewStateChanged, "error", err)
			}
		}
	}
	return rec, result, nil
}

// Reopen returns an approved or rejected asset to pending with a fresh attempt budget.
func (s *ReviewService) Reopen(assetID string) (*review.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.store.LoadReviews()
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	rec := book.Get(assetID)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrReviewNotFound, assetID)
	}

	sm, err := review.NewStateMachine(rec.State, rec.AssetID, rec.Attempts, s.maxAttempts)
	if err != nil {
		return nil, err
	}
	if err := sm.Transition(review.EventReopen); err != nil {
		return nil, err
	}

	rec.State = sm.Current()
	rec.Attempts = 0
	rec.UpdatedAt = time.Now()
	book.Put(rec)
	if err := s.store.SaveReviews(book); err != nil {
		return nil, fmt.Errorf("save reviews: %w", err)
	}
	return rec, nil
}

// Get returns one record.
func (s *ReviewService) Get(assetID string) (*review.Record, error) {
	book, err := s.store.LoadReviews()
	if err != nil {
		return nil, err
	}
	rec := book.Get(assetID)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrReviewNotFound, assetID)
	}
	return rec, nil
}

// List returns records sorted by asset ID, optionally filtered by state.
func (s *ReviewService) List(state string) ([]*review.Record, error) {
	book, err := s.store.LoadReviews()
	if err != nil {
		return nil, err
	}
	var out []*review.Record
	for _, rec := range book.Records {
		if state == "" || rec.State == state {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out, nil
}

// Counts tallies records per state.
func (s *ReviewService) Counts() (map[string]int, error) {
	book, err := s.store.LoadReviews()
	if err != nil {
		return nil, err
	}
	return book.Counts(), nil
}
