package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/irlens/dsscheck/internal/extract"
	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
)

var (
	extractRole    string
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structured financial metrics from a document",
	Long: `Extract pulls every financial metric out of a transcript or DSS as
structured records: company, period, metric, value, unit, and the sentence
the number came from. Values stay in the units the document uses.

Example:
  dsscheck extract earning_call.txt
  dsscheck extract dss.txt --role dss --json metrics.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractRole, "role", "earning_call", "document role (earning_call, dss)")
	extractCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 3*time.Minute, "extraction timeout")
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (anthropic, openai, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	role := model.DocumentRole(extractRole)
	if role != model.RoleSource && role != model.RoleSummary {
		return fmt.Errorf("unknown role %q (want earning_call or dss)", extractRole)
	}

	cfg := loadConfig()
	applyLLMFlags(cfg)

	log, err := initLogger(cfg.Log)
	if err != nil {
		return err
	}

	if err := resolveAPIKey(&cfg.LLM); err != nil {
		return err
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	oracle, err := llm.NewOracle(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}

	records, err := extract.NewExtractor(oracle, log).Extract(ctx, string(text), role)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	data = append(data, '\n')

	if outJSON != "" {
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ %d metrics: %s\n", len(records), outJSON)
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
