package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/qa"
	"github.com/ultrapreps/visionqa/pkg/domain/report"
)

// DefaultConcurrency bounds how many assets a batch validates at once.
const DefaultConcurrency = 4

// MetricsRecorder receives validation telemetry. Implementations must be safe for
// concurrent use.
type MetricsRecorder interface {
	ObserveValidation(assetType asset.Type, source asset.Source, score float64, passed bool, elapsed time.Duration)
	ObserveFallback(provider string)
	ObserveBatch(total, passed int)
}

// HeroCardRequest describes an athlete hero card.
type HeroCardRequest struct {
	Name         string             `json:"name"`
	Sport        string             `json:"sport"`
	School       string             `json:"school"`
	SchoolColors asset.SchoolColors `json:"school_colors"`
}

// MascotRequest describes a school mascot illustration.
type MascotRequest struct {
	SchoolName   string             `json:"school_name"`
	MascotType   string             `json:"mascot_type"`
	SchoolColors asset.SchoolColors `json:"school_colors"`
	IntendedPose string             `json:"intended_pose,omitempty"`
}

// BatchItem is one image and the context it should be judged against.
type BatchItem struct {
	Image   asset.Image   `json:"image" yaml:"image"`
	Context asset.Context `json:"context" yaml:"context"`
}

var errEmptyResponse = errors.New("vision backend returned no response")

// ValidationService scores generated images. With no provider it runs in mock mode;
// with one, any backend failure falls back to mock scoring. It never returns errors.
type ValidationService struct {
	provider    ai.Provider
	mock        *qa.MockScorer
	logger      *slog.Logger
	dispatcher  *events.EventDispatcher
	metrics     MetricsRecorder
	concurrency int
}

// ValidationOption configures a ValidationService.
type ValidationOption func(*ValidationService)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ValidationOption {
	return func(s *ValidationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRandomSource pins the mock scorer's randomness.
func WithRandomSource(random qa.RandomSource) ValidationOption {
	return func(s *ValidationService) {
		s.mock = qa.NewMockScorer(random)
	}
}

// WithDispatcher publishes validation events.
func WithDispatcher(d *events.EventDispatcher) ValidationOption {
	return func(s *ValidationService) {
		s.dispatcher = d
	}
}

// WithMetrics records validation telemetry.
func WithMetrics(m MetricsRecorder) ValidationOption {
	return func(s *ValidationService) {
		s.metrics = m
	}
}

// WithConcurrency bounds batch parallelism. Values below 1 keep the default.
func WithConcurrency(n int) ValidationOption {
	return func(s *ValidationService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewValidationService builds a validator. A nil provider selects mock mode.
func NewValidationService(provider ai.Provider, opts ...ValidationOption) *ValidationService {
	s := &ValidationService{
		provider:    provider,
		mock:        qa.NewMockScorer(nil),
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderID names the configured backend, empty in mock mode.
func (s *ValidationService) ProviderID() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.ID()
}

// ValidateAsset scores one image against its context.
func (s *ValidationService) ValidateAsset(ctx context.Context, image asset.Image, c asset.Context) asset.ValidationResult {
	start := time.Now()
	result := s.analyze(ctx, image, c)
	s.observe(ctx, image, c, result, time.Since(start))
	return result
}

func (s *ValidationService) analyze(ctx context.Context, image asset.Image, c asset.Context) asset.ValidationResult {
	if s.provider == nil {
		return s.mock.Score(c)
	}

	resp, err := s.provider.Complete(ctx, ai.CompletionRequest{
		System:    qa.AnalysisSystemPrompt,
		Prompt:    qa.BuildAnalysisPrompt(c),
		Images:    []asset.Image{image},
		MaxTokens: 1024,
		JSONMode:  true,
	})
	if err != nil {
		return s.fallback(ctx, image, c, fmt.Errorf("vision analysis failed: %w", err))
	}
	if resp == nil {
		return s.fallback(ctx, image, c, errEmptyResponse)
	}

	analysis, err := qa.ParseAnalysis(resp.Text)
	if err != nil {
		return s.fallback(ctx, image, c, err)
	}

	result := qa.Evaluate(analysis, c)
	result.Provider = s.provider.ID()
	s.logger.Debug("vision analysis complete",
		"image", image.Ref,
		"provider", result.Provider,
		"quality_score", analysis.QualityScore,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return result
}

func (s *ValidationService) fallback(ctx context.Context, image asset.Image, c asset.Context, cause error) asset.ValidationResult {
	providerID := s.provider.ID()
	s.logger.Warn("vision backend unavailable, using simulated scoring",
		"image", image.Ref,
		"asset_type", c.AssetType,
		"provider", providerID,
		"error", cause,
	)
	if s.metrics != nil {
		s.metrics.ObserveFallback(providerID)
	}
	s.dispatch(ctx, events.NewFallbackUsed(image.Ref, providerID, cause))
	return s.mock.Score(c)
}

func (s *ValidationService) observe(ctx context.Context, image asset.Image, c asset.Context, r asset.ValidationResult, elapsed time.Duration) {
	s.logger.Info("asset validated",
		"image", image.Ref,
		"asset_type", c.AssetType,
		"score", r.Score,
		"passed", r.Passed,
		"requires_regeneration", r.RequiresRegeneration,
		"source", r.Source,
	)
	if s.metrics != nil {
		s.metrics.ObserveValidation(c.AssetType, r.Source, r.Score, r.Passed, elapsed)
	}
	s.dispatch(ctx, events.NewAssetValidated(image.Ref, c, r))
	if r.RequiresRegeneration {
		s.dispatch(ctx, events.NewRegenerationRequired(image.Ref, c, r))
	}
}

// dispatch delivers an event even when ctx was cancelled mid-validation.
func (s *ValidationService) dispatch(ctx context.Context, event events.DomainEvent) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("event handler failed", "event", event.EventType(), "error", err)
	}
}

// HeroCardContext builds the validation context for an athlete hero card.
func HeroCardContext(req HeroCardRequest) asset.Context {
	return asset.Context{
		AssetType:      asset.TypeHeroCard,
		SchoolName:     req.School,
		SchoolColors:   req.SchoolColors,
		IntendedUse:    fmt.Sprintf("%s hero card featuring student-athlete %s", req.Sport, req.Name),
		TargetAudience: asset.AudiencePublic,
	}
}

// ValidateHeroCard validates a hero card and, when it passes below the branding bar,
// adds advisory cinematic guidance.
func (s *ValidationService) ValidateHeroCard(ctx context.Context, image asset.Image, req HeroCardRequest) asset.ValidationResult {
	return qa.ApplyHeroCardAdvice(s.ValidateAsset(ctx, image, HeroCardContext(req)))
}

// MascotContext builds the validation context for a mascot illustration.
func MascotContext(req MascotRequest) asset.Context {
	use := fmt.Sprintf("%s mascot artwork", req.SchoolName)
	if pose := strings.TrimSpace(req.IntendedPose); pose != "" {
		use += ", " + pose
	}
	return asset.Context{
		AssetType:      asset.TypeMascot,
		SchoolName:     req.SchoolName,
		SchoolColors:   req.SchoolColors,
		MascotType:     req.MascotType,
		IntendedUse:    use,
		TargetAudience: asset.AudienceStudent,
	}
}

// ValidateMascot validates a mascot illustration.
func (s *ValidationService) ValidateMascot(ctx context.Context, image asset.Image, req MascotRequest) asset.ValidationResult {
	return s.ValidateAsset(ctx, image, MascotContext(req))
}

// GenerateImprovementPrompt extends a generation prompt with the corrections a result
// calls for.
func (s *ValidationService) GenerateImprovementPrompt(originalPrompt string, result asset.ValidationResult) string {
	return qa.GenerateImprovementPrompt(originalPrompt, result)
}

// BatchValidate validates every item concurrently and returns results in input order.
func (s *ValidationService) BatchValidate(ctx context.Context, items []BatchItem) []asset.ValidationResult {
	results, _ := s.RunBatch(ctx, items)
	return results
}

// RunBatch is BatchValidate plus the run's report.
func (s *ValidationService) RunBatch(ctx context.Context, items []BatchItem) ([]asset.ValidationResult, *report.BatchReport) {
	runID := uuid.NewString()
	started := time.Now()
	results := make([]asset.ValidationResult, len(items))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, item := range items {
		g.Go(func() error {
			results[i] = s.ValidateAsset(ctx, item.Image, item.Context)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	rep := &report.BatchReport{
		RunID:     runID,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
		Total:     len(items),
		Items:     make([]report.Item, len(items)),
	}
	for i, r := range results {
		if r.Passed {
			rep.Passed++
		}
		rep.Items[i] = report.NewItem(items[i].Image.Ref, items[i].Context, r)
	}

	s.logger.Info("batch validation complete",
		"run_id", runID,
		"total", rep.Total,
		"passed", rep.Passed,
		"pass_rate", rep.PassRate(),
	)
	if s.metrics != nil {
		s.metrics.ObserveBatch(rep.Total, rep.Passed)
	}
	s.dispatch(ctx, events.NewBatchCompleted(runID, rep.Total, rep.Passed))
	return results, rep
}
