package ai

import (
	"fmt"
	"os"

	"github.com/ultrapreps/visionqa/pkg/domain/ai"
)

// NewProvider builds a named provider, reading API keys from the environment.
func NewProvider(providerName string, modelName string) (ai.Provider, error) {
	switch providerName {
	case "ollama":
		return NewOllamaProvider(modelName), nil
	case "mock":
		return &MockProvider{Model: modelName}, nil
	case "openai":
		return NewOpenAIProvider(modelName, os.Getenv("OPENAI_API_KEY")), nil
	case "anthropic":
		return NewAnthropicProvider(modelName, os.Getenv("ANTHROPIC_API_KEY")), nil
	case "gemini":
		return NewGeminiProvider(modelName, os.Getenv("GEMINI_API_KEY")), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// DetectProvider picks a provider from whichever credentials are present, in the order
// OpenAI, Anthropic, Gemini, Ollama. An empty result means no backend is configured.
func DetectProvider() string {
	switch {
	case os.Getenv("OPENAI_API_KEY") != "":
		return "openai"
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return "anthropic"
	case os.Getenv("GEMINI_API_KEY") != "":
		return "gemini"
	case os.Getenv("OLLAMA_HOST") != "":
		return "ollama"
	}
	return ""
}

// GetDefaultProvider returns a provider based on environment variables or config defaults.
// It returns nil with no error when nothing is configured, which callers treat as
// simulated scoring.
func GetDefaultProvider(providerName, modelName string) (ai.Provider, error) {
	if envProvider := os.Getenv("VISIONQA_AI_PROVIDER"); envProvider != "" {
		providerName = envProvider
	}
	if envModel := os.Getenv("VISIONQA_AI_MODEL"); envModel != "" {
		modelName = envModel
	}

	if providerName == "" || providerName == "auto" {
		providerName = DetectProvider()
	}
	if providerName == "" || providerName == "none" {
		return nil, nil
	}
	return NewProvider(providerName, modelName)
}
