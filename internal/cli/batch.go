package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/pipeline"
	"github.com/irlens/dsscheck/internal/worker"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Validate multiple transcript/DSS pairs in parallel",
	Long: `Batch validates many document pairs concurrently:
- Read pairs from a manifest file (transcript path, then DSS path, per line)
- Validate pairs in parallel with a configurable worker count
- Each validation fans its sentences out concurrently as well
- Write individual reports for every pair

Example:
  dsscheck batch pairs.txt
  dsscheck batch pairs.txt --batch-workers 4 --output-dir ./reports
  dsscheck batch pairs.txt --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "batch-workers", 0, "concurrent pair validations (0 = config default)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./dsscheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 60*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent sentence validations per pair (0 = config default)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the oracle response cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noCorrect, "no-correct", false, "skip corrected DSS generation")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (anthropic, openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	applyLLMFlags(cfg)
	if workers > 0 {
		cfg.Concurrency.SentenceWorkers = workers
	}
	if batchWorkers > 0 {
		cfg.Concurrency.BatchWorkers = batchWorkers
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

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  dsscheck Batch Validation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", manifest)
	fmt.Fprintf(os.Stderr, "  Workers:      %d pairs × %d sentences\n", cfg.Concurrency.BatchWorkers, cfg.Concurrency.SentenceWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Oracle:       %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	oracle, err := llm.NewOracle(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}

	p := pipeline.New(oracle, cfg, buildCache(cfg.Cache), log)
	p.SetGenerateCorrected(!noCorrect)

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)
	results, err := processor.ProcessFile(ctx, manifest)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Pair.SummaryPath, result.Error)
			continue
		}

		successCount++

		slug := reportSlug(result.Pair.SummaryPath)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		data, err := renderer.RenderJSON(result.Report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: render JSON: %v\n", result.Pair.SummaryPath, err)
			continue
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write JSON: %v\n", result.Pair.SummaryPath, err)
			continue
		}
		if err := os.WriteFile(mdPath, []byte(renderer.RenderMarkdown(result.Report)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write Markdown: %v\n", result.Pair.SummaryPath, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%s, 점수: %d/100)\n",
			result.Pair.SummaryPath, result.Report.Company, result.Report.Assessment.AccuracyScore)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d pairs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d pairs failed", failureCount, len(results))
	}
	return nil
}

// reportSlug derives an output file stem from the summary path
func reportSlug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range base {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	slug := b.String()
	if len(slug) > 100 {
		slug = slug[:100]
	}
	if slug == "" {
		slug = "report"
	}
	return slug
}
