// Package events defines the domain events emitted while validating assets.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

const (
	EventTypeAssetValidated       = "asset.validated"
	EventTypeRegenerationRequired = "asset.regeneration_required"
	EventTypeFallbackUsed         = "asset.fallback_used"
	EventTypeBatchCompleted       = "batch.completed"
	EventTypeReviewStateChanged   = "review.state_changed"
)

// DomainEvent is the interface dispatched to handlers.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent is the single event shape: a type, the asset or batch it concerns and a
// flat metadata map that serializes cleanly to every messaging adapter.
type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Subject   string                 `json:"subject"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (e *BaseEvent) EventType() string     { return e.Type }
func (e *BaseEvent) AggregateID() string   { return e.Subject }
func (e *BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func newEvent(eventType, subject string, metadata map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// NewAssetValidated records a completed validation. A regeneration-required event is
// emitted separately so subscribers can filter on it.
func NewAssetValidated(image string, c asset.Context, r asset.ValidationResult) *BaseEvent {
	return newEvent(EventTypeAssetValidated, image, map[string]interface{}{
		"asset_type":            string(c.AssetType),
		"school":                c.SchoolName,
		"score":                 r.Score,
		"passed":                r.Passed,
		"requires_regeneration": r.RequiresRegeneration,
		"issues":                len(r.Issues),
		"source":                string(r.Source),
	})
}

// NewRegenerationRequired tells generation pipelines an asset must be redone.
func NewRegenerationRequired(image string, c asset.Context, r asset.ValidationResult) *BaseEvent {
	return newEvent(EventTypeRegenerationRequired, image, map[string]interface{}{
		"asset_type":  string(c.AssetType),
		"school":      c.SchoolName,
		"score":       r.Score,
		"suggestions": r.Suggestions,
	})
}

// NewFallbackUsed records that a vision backend failed and mock scoring stood in.
func NewFallbackUsed(image, provider string, cause error) *BaseEvent {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	return newEvent(EventTypeFallbackUsed, image, map[string]interface{}{
		"provider": provider,
		"reason":   reason,
	})
}

// NewBatchCompleted summarizes a batch run.
func NewBatchCompleted(runID string, total, passed int) *BaseEvent {
	rate := 0.0
	if total > 0 {
		rate = float64(passed) / float64(total)
	}
	return newEvent(EventTypeBatchCompleted, runID, map[string]interface{}{
		"total":     total,
		"passed":    passed,
		"pass_rate": rate,
	})
}

// NewReviewStateChanged records a review lifecycle transition.
func NewReviewStateChanged(assetID, from, to string, attempts int) *BaseEvent {
	return newEvent(EventTypeReviewStateChanged, assetID, map[string]interface{}{
		"from":     from,
		"to":       to,
		"attempts": attempts,
	})
}
