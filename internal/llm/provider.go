package llm

import (
	"context"

	"github.com/irlens/dsscheck/internal/model"
)

// Oracle is the external natural-language reasoning capability the pipeline
// depends on. It is injected everywhere it is used, never reached through a
// global, so tests can substitute doubles.
type Oracle interface {
	// Name returns the provider name
	Name() string

	// Model returns the effective model name
	Model() string

	// Complete sends one prompt and returns the raw response text.
	// Implementations bound the call with their configured timeout.
	Complete(ctx context.Context, req Request) (string, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Request is a single oracle completion request
type Request struct {
	// System is an optional system instruction
	System string

	// Prompt is the user-facing prompt text
	Prompt string

	// Model overrides the configured model when non-empty
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature; validation prompts run at 0 for deterministic output
	Temperature float32
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "anthropic", "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Anthropic/OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Timeout:   60,
		MaxTokens: 4096,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}
