package ai_test

import (
	"testing"

	infraAI "github.com/ultrapreps/visionqa/pkg/ai"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"VISIONQA_AI_PROVIDER", "VISIONQA_AI_MODEL", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OLLAMA_HOST"} {
		t.Setenv(key, "")
	}
}

func TestNewProvider(t *testing.T) {
	clearProviderEnv(t)
	tests := []struct {
		provider string
		model    string
		wantID   string
	}{
		{"openai", "gpt-4o", "openai:gpt-4o"},
		{"anthropic", "", "anthropic:claude-3-5-sonnet-20240620"},
		{"gemini", "gemini-1.5-flash", "gemini:gemini-1.5-flash"},
		{"ollama", "", "ollama:llava"},
		{"mock", "fixed", "mock:fixed"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := infraAI.NewProvider(tt.provider, tt.model)
			if err != nil {
				t.Fatalf("NewProvider(%s): %v", tt.provider, err)
			}
			if p.ID() != tt.wantID {
				t.Errorf("expected ID %s, got %s", tt.wantID, p.ID())
			}
		})
	}
}

func TestNewProvider_Unsupported(t *testing.T) {
	if _, err := infraAI.NewProvider("dalle", ""); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestGetDefaultProvider_NoCredentialsIsMockMode(t *testing.T) {
	clearProviderEnv(t)
	p, err := infraAI.GetDefaultProvider("", "")
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Errorf("expected nil provider, got %s", p.ID())
	}
}

func TestGetDefaultProvider_DetectsCredentials(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	p, err := infraAI.GetDefaultProvider("", "claude-3-haiku")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.ID() != "anthropic:claude-3-haiku" {
		t.Fatalf("expected anthropic provider, got %v", p)
	}
}

func TestGetDefaultProvider_EnvOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("VISIONQA_AI_PROVIDER", "gemini")
	t.Setenv("VISIONQA_AI_MODEL", "gemini-1.5-flash")
	p, err := infraAI.GetDefaultProvider("openai", "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID() != "gemini:gemini-1.5-flash" {
		t.Errorf("expected env override, got %s", p.ID())
	}
}

func TestGetDefaultProvider_ExplicitNone(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk")
	p, err := infraAI.GetDefaultProvider("none", "")
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Errorf("expected mock mode, got %s", p.ID())
	}
}

func TestDetectProvider_Order(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("OPENAI_API_KEY", "o")
	if got := infraAI.DetectProvider(); got != "openai" {
		t.Errorf("expected openai first, got %q", got)
	}
}
