package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/irlens/dsscheck/internal/cache"
	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
	"github.com/irlens/dsscheck/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	externalRef string
	runTimeout  time.Duration
	workers     int
	noCache     bool
	noFooter    bool
	noCorrect   bool
	llmProvider string
	llmModel    string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <transcript> <dss>",
	Short: "Validate one DSS against its earning-call transcript",
	Long: `Validate checks every sentence of a DSS summary against the earning-call
transcript it was written from:
- Split the DSS into sections (실적, 가이던스, Q&A) and sentences
- Check each sentence against the transcript via the LLM oracle
- Score the document and list every surviving issue
- Generate a corrected DSS when errors are found

Example:
  dsscheck validate earning_call.txt dss.txt
  dsscheck validate earning_call.txt dss.txt --json report.json --md report.md
  dsscheck validate earning_call.txt dss.txt --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	// Output flags
	validateCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	validateCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	validateCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Run flags
	validateCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall validation timeout")
	validateCmd.Flags().IntVar(&workers, "workers", 0, "concurrent sentence validations (0 = config default)")
	validateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the oracle response cache")
	validateCmd.Flags().BoolVar(&noCorrect, "no-correct", false, "skip corrected DSS generation")
	validateCmd.Flags().StringVar(&externalRef, "external-ref", "", "file with external reference material for number cross-checks")

	// LLM flags
	validateCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (anthropic, openai, ollama)")
	validateCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := loadConfig()
	applyLLMFlags(cfg)
	if workers > 0 {
		cfg.Concurrency.SentenceWorkers = workers
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = !noFooter

	log, err := initLogger(cfg.Log)
	if err != nil {
		return err
	}

	if err := resolveAPIKey(&cfg.LLM); err != nil {
		return err
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	summary, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read DSS: %w", err)
	}

	ref := ""
	if externalRef != "" {
		data, err := os.ReadFile(externalRef)
		if err != nil {
			return fmt.Errorf("read external reference: %w", err)
		}
		ref = string(data)
	}

	oracle, err := llm.NewOracle(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}

	p := pipeline.New(oracle, cfg, buildCache(cfg.Cache), log)
	p.SetGenerateCorrected(!noCorrect)

	report, err := p.Validate(ctx, string(source), string(summary), ref)
	if err != nil {
		if report == nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return writeReport(report, cfg.Output.IncludeFooter)
}

// applyLLMFlags overlays provider/model flags onto the merged config
func applyLLMFlags(cfg *model.Config) {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
}

// resolveAPIKey fills the API key from the environment when the config
// leaves it empty
func resolveAPIKey(cfg *model.LLMConfig) error {
	if cfg.APIKey != "" {
		return nil
	}

	switch cfg.Provider {
	case "anthropic", "claude":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.BaseURL == "" {
			cfg.BaseURL = baseURL
		}
	}
	return nil
}

// buildCache builds the response cache per config, nil when disabled
func buildCache(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return nil
	}

	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cache.NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
		}
		dir = filepath.Join(home, ".dsscheck", "cache")
	}
	return cache.NewLayeredCache(cfg.MemoryTTL, dir, cfg.DiskTTL)
}

// writeReport renders the report to the configured outputs and prints the
// run summary to stderr
func writeReport(report *model.Report, includeFooter bool) error {
	renderer := pipeline.NewRenderer(includeFooter)

	if outJSON != "" {
		data, err := renderer.RenderJSON(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
	}

	if outMD != "" {
		if err := os.WriteFile(outMD, []byte(renderer.RenderMarkdown(report)), 0644); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", outMD)
	}

	fmt.Fprintln(os.Stderr)
	renderer.PrintSummary(os.Stderr, report)
	return nil
}
