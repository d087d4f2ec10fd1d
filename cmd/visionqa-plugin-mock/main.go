package main

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/go-plugin"
	domainPlugin "github.com/ultrapreps/visionqa/pkg/domain/plugin"
	infraPlugin "github.com/ultrapreps/visionqa/pkg/plugin"
)

// MockAnalyzer answers with a deterministic analysis derived from the image bytes, so
// the same image always scores the same.
type MockAnalyzer struct {
	logger *slog.Logger
}

func (m *MockAnalyzer) Name() (string, error) {
	return "mock-analyzer", nil
}

type analysis struct {
	ColorsMatch    bool     `json:"colors_match"`
	QualityScore   float64  `json:"quality_score"`
	MascotAccurate bool     `json:"mascot_accurate"`
	Professional   bool     `json:"professional"`
	Issues         []string `json:"issues"`
	Strengths      []string `json:"strengths"`
}

func (m *MockAnalyzer) Analyze(req *domainPlugin.AnalyzeRequest) (*domainPlugin.AnalyzeResponse, error) {
	m.logger.Info("analyzing image", "ref", req.ImageRef, "mime", req.ImageMIME, "inline_bytes", len(req.ImageData))

	seed := req.ImageData
	if seed == "" {
		seed = req.ImageRef
	}
	sum := sha256.Sum256([]byte(seed))
	quality := 0.7 + 0.3*float64(binary.BigEndian.Uint16(sum[:2]))/65535

	a := analysis{
		ColorsMatch:    sum[2]%4 != 0,
		QualityScore:   quality,
		MascotAccurate: sum[3]%5 != 0,
		Professional:   quality >= 0.75,
		Issues:         []string{},
		Strengths:      []string{"clean composition"},
	}
	if strings.Contains(strings.ToLower(req.Prompt), "herocard") {
		a.Strengths = append(a.Strengths, "athletic pose")
	}
	if !a.ColorsMatch {
		a.Issues = append(a.Issues, "school colors look washed out")
	}

	out, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return &domainPlugin.AnalyzeResponse{Text: string(out), Model: "mock-analyzer"}, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			infraPlugin.AnalyzerKey: &domainPlugin.AnalyzerPlugin{Impl: &MockAnalyzer{logger: logger}},
		},
	})
}
