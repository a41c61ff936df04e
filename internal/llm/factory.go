package llm

import (
	"fmt"
	"strings"
)

// NewOracle creates an oracle provider based on configuration
func NewOracle(config Config) (Oracle, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "anthropic", "claude":
		return NewAnthropicOracle(config)

	case "openai":
		return NewOpenAIOracle(config)

	case "ollama":
		return NewOllamaOracle(config)

	case "":
		return nil, fmt.Errorf("no oracle provider configured")

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: anthropic, openai, ollama)", config.Provider)
	}
}
