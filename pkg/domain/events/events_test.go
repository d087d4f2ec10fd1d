package events

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

func TestNewAssetValidated(t *testing.T) {
	c := asset.Context{AssetType: asset.TypeHeroCard, SchoolName: "Central High"}
	r := asset.ValidationResult{Score: 0.82, Passed: true, RequiresRegeneration: true, Issues: []string{"x"}, Source: asset.SourceMock}

	e := NewAssetValidated("card.png", c, r)
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Errorf("missing identity: %+v", e)
	}
	if e.EventType() != EventTypeAssetValidated || e.AggregateID() != "card.png" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Metadata["asset_type"] != "herocard" || e.Metadata["issues"] != 1 || e.Metadata["source"] != "mock" {
		t.Errorf("unexpected metadata: %v", e.Metadata)
	}
}

func TestNewBatchCompleted_PassRate(t *testing.T) {
	e := NewBatchCompleted("run-1", 4, 3)
	if e.Metadata["pass_rate"] != 0.75 {
		t.Errorf("pass_rate = %v", e.Metadata["pass_rate"])
	}
	if NewBatchCompleted("run-2", 0, 0).Metadata["pass_rate"] != 0.0 {
		t.Error("empty batch should report zero pass rate")
	}
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := NewLoggingHandler(logger)
	if err := h(context.Background(), NewFallbackUsed("card.png", "openai:gpt-4o", nil)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "event_type=asset.fallback_used") {
		t.Errorf("unexpected log line: %s", out)
	}
}
