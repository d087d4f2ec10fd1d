package plugin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	domainPlugin "github.com/ultrapreps/visionqa/pkg/domain/plugin"
)

type fakeAnalyzer struct {
	name    string
	nameErr error
	text    string
	err     error
	delay   time.Duration
	last    *domainPlugin.AnalyzeRequest
}

func (f *fakeAnalyzer) Name() (string, error) { return f.name, f.nameErr }

func (f *fakeAnalyzer) Analyze(req *domainPlugin.AnalyzeRequest) (*domainPlugin.AnalyzeResponse, error) {
	f.last = req
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domainPlugin.AnalyzeResponse{Text: f.text}, nil
}

func TestProvider_Complete(t *testing.T) {
	fa := &fakeAnalyzer{name: "local-llava", text: `{"quality_score": 0.9}`}
	p, err := NewProvider(fa)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID() != "plugin:local-llava" {
		t.Errorf("unexpected ID %q", p.ID())
	}

	resp, err := p.Complete(context.Background(), ai.CompletionRequest{
		Prompt: "rate",
		System: "sys",
		Images: []asset.Image{asset.NewImage("data:image/png;base64,AAAA")},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != `{"quality_score": 0.9}` || resp.Model != "local-llava" {
		t.Errorf("unexpected response %+v", resp)
	}
	if fa.last.ImageMIME != "image/png" || fa.last.ImageData != "AAAA" {
		t.Errorf("expected inline image, got %+v", fa.last)
	}
}

func TestProvider_RemoteImagePassesReference(t *testing.T) {
	fa := &fakeAnalyzer{name: "a", text: "{}"}
	p, _ := NewProvider(fa)
	_, err := p.Complete(context.Background(), ai.CompletionRequest{
		Images: []asset.Image{asset.NewImage("https://cdn.example.com/x.png")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fa.last.ImageRef != "https://cdn.example.com/x.png" || fa.last.ImageData != "" {
		t.Errorf("expected reference only, got %+v", fa.last)
	}
}

func TestProvider_Errors(t *testing.T) {
	if _, err := NewProvider(&fakeAnalyzer{nameErr: errors.New("rpc")}); err == nil {
		t.Error("expected name error")
	}

	p, _ := NewProvider(&fakeAnalyzer{name: "a", err: errors.New("model crashed")})
	if _, err := p.Complete(context.Background(), ai.CompletionRequest{}); err == nil {
		t.Error("expected analyzer error")
	}

	two := []asset.Image{asset.NewImage("https://a/1.png"), asset.NewImage("https://a/2.png")}
	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Images: two}); err == nil {
		t.Error("expected error for multiple images")
	}
}

func TestProvider_ContextCancel(t *testing.T) {
	p, _ := NewProvider(&fakeAnalyzer{name: "slow", text: "{}", delay: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := p.Complete(ctx, ai.CompletionRequest{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestProvider_UnnamedAnalyzer(t *testing.T) {
	p, err := NewProvider(&fakeAnalyzer{name: "  "})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID() != "plugin:unnamed" {
		t.Errorf("unexpected ID %q", p.ID())
	}
}
