package model

import "time"

// Config is the full runtime configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// LLMConfig configures the oracle provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // anthropic, openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per request
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Rate limiting of oracle calls
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	// Proxy settings for provider HTTP clients
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ConcurrencyConfig bounds the worker pools
type ConcurrencyConfig struct {
	SentenceWorkers int `yaml:"sentence_workers" mapstructure:"sentence_workers"` // per validation run
	BatchWorkers    int `yaml:"batch_workers" mapstructure:"batch_workers"`       // document pairs in batch mode
}

// CacheConfig configures the oracle response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the audit logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "anthropic",
			Model:             "",
			Timeout:           60,
			MaxTokens:         4096,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Concurrency: ConcurrencyConfig{
			SentenceWorkers: 4,
			BatchWorkers:    2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
