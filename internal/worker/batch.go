package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/irlens/dsscheck/internal/model"
)

// Runner validates one transcript/summary pair
type Runner interface {
	Validate(ctx context.Context, sourceText, summaryText, externalRef string) (*model.Report, error)
}

// Pair names the two input files of one validation run
type Pair struct {
	SourcePath  string // earning-call transcript
	SummaryPath string // DSS under validation
}

// PairJob validates one pair
type PairJob struct {
	Pair   Pair
	Runner Runner
}

// Execute reads both documents and runs the validation pipeline
func (j *PairJob) Execute(ctx context.Context) Result {
	source, err := os.ReadFile(j.Pair.SourcePath)
	if err != nil {
		return &PairResult{Pair: j.Pair, Error: fmt.Errorf("read transcript: %w", err)}
	}
	summary, err := os.ReadFile(j.Pair.SummaryPath)
	if err != nil {
		return &PairResult{Pair: j.Pair, Error: fmt.Errorf("read summary: %w", err)}
	}

	report, err := j.Runner.Validate(ctx, string(source), string(summary), "")
	return &PairResult{Pair: j.Pair, Report: report, Error: err}
}

// PairResult is the outcome of one pair validation
type PairResult struct {
	Pair   Pair
	Report *model.Report
	Error  error
}

// GetError returns the error from the pair result
func (r *PairResult) GetError() error {
	return r.Error
}

// BatchProcessor validates multiple document pairs concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPairs validates the pairs concurrently
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []Pair) []*PairResult {
	if len(pairs) == 0 {
		return []*PairResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, pair := range pairs {
		pool.Submit(&PairJob{Pair: pair, Runner: b.runner})
	}

	results := pool.Wait()

	pairResults := make([]*PairResult, len(results))
	for i, result := range results {
		pairResults[i] = result.(*PairResult)
	}

	return pairResults
}

// ProcessFile reads a manifest and validates every pair in it
func (b *BatchProcessor) ProcessFile(ctx context.Context, manifestPath string) ([]*PairResult, error) {
	pairs, err := ReadPairsFromFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPairs(ctx, pairs), nil
}

// ReadPairsFromFile reads a manifest of validation pairs: one pair per
// line, transcript path then DSS path, whitespace-separated. Blank lines
// and # comments are skipped; duplicate lines run once.
func ReadPairsFromFile(manifestPath string) ([]Pair, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var pairs []Pair
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("manifest line %d: want \"<transcript> <dss>\", got %q", lineNo, line)
		}

		if !seen[line] {
			seen[line] = true
			pairs = append(pairs, Pair{SourcePath: fields[0], SummaryPath: fields[1]})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return pairs, nil
}
