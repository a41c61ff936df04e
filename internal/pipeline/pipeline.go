// Package pipeline orchestrates a full validation run: segment the summary,
// validate every sentence against the transcript, aggregate the outcomes
// into a report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/irlens/dsscheck/internal/cache"
	"github.com/irlens/dsscheck/internal/extract"
	"github.com/irlens/dsscheck/internal/lang"
	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
	"github.com/irlens/dsscheck/internal/score"
	"github.com/irlens/dsscheck/internal/segment"
	"github.com/irlens/dsscheck/internal/validate"
	"github.com/irlens/dsscheck/internal/worker"
)

// unknownCompany is reported when the oracle cannot name the company
const unknownCompany = "미상"

// Pipeline wires the stages of one validation run. It implements
// worker.Runner so batch mode can fan document pairs through it.
type Pipeline struct {
	oracle     llm.Oracle
	classifier *segment.Classifier
	splitter   *segment.Splitter
	validator  *validate.SentenceValidator
	aggregator *score.Aggregator
	extractor  *extract.Extractor
	translator *lang.Translator
	corrector  *Corrector

	sentenceWorkers   int
	generateCorrected bool
	log               *zap.Logger
}

// Options tune optional pipeline behavior
type Options struct {
	// SentenceWorkers bounds the concurrent sentence validations
	SentenceWorkers int

	// GenerateCorrected produces a corrected summary when issues are found
	GenerateCorrected bool

	// ExternalReference is injected into every validation prompt; when
	// empty a search-query hint is derived from the transcript
	ExternalReference string
}

// New creates a pipeline. responseCache may be nil to disable caching.
func New(oracle llm.Oracle, cfg *model.Config, responseCache cache.Cache, log *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)

	workers := cfg.Concurrency.SentenceWorkers
	if workers <= 0 {
		workers = 4
	}

	return &Pipeline{
		oracle:            oracle,
		classifier:        segment.NewClassifier(),
		splitter:          segment.NewSplitter(),
		validator:         validate.NewSentenceValidator(oracle, limiter, responseCache, log),
		aggregator:        score.NewAggregator(),
		extractor:         extract.NewExtractor(oracle, log),
		translator:        lang.NewTranslator(oracle, responseCache, log),
		corrector:         NewCorrector(oracle, log),
		sentenceWorkers:   workers,
		generateCorrected: true,
		log:               log,
	}
}

// SetGenerateCorrected toggles corrected-summary generation
func (p *Pipeline) SetGenerateCorrected(enabled bool) {
	p.generateCorrected = enabled
}

// Validate runs the full pipeline over one transcript/summary pair. The
// returned report is complete even when some sentences errored; only a run
// where every single sentence errored returns a non-nil error alongside the
// partial report.
func (p *Pipeline) Validate(ctx context.Context, sourceText, summaryText, externalRef string) (*model.Report, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("empty transcript")
	}
	if strings.TrimSpace(summaryText) == "" {
		return nil, fmt.Errorf("empty summary")
	}

	sourceText, err := p.ensureKorean(ctx, sourceText)
	if err != nil {
		return nil, err
	}

	company := p.extractCompany(ctx, summaryText)

	if externalRef == "" {
		externalRef = ReferenceHint(company, sourceText)
	}

	sections := p.classifier.Classify(summaryText)
	if len(sections) == 0 {
		return nil, fmt.Errorf("summary has no validatable content")
	}

	p.log.Info("starting validation",
		zap.String("company", company),
		zap.Int("sections", len(sections)))

	outcomes := p.validateSections(ctx, sourceText, sections, externalRef)

	for i := range outcomes {
		if outcomes[i].Company == "" {
			outcomes[i].Company = company
		}
	}

	report := &model.Report{
		Company:     company,
		ValidatedAt: time.Now().UTC(),
		Oracle: model.OracleMeta{
			Provider: p.oracle.Name(),
			Model:    p.oracle.Model(),
		},
		Sections:   sections,
		Outcomes:   score.Sort(outcomes),
		Assessment: p.aggregator.Aggregate(outcomes),
	}

	if allErrored(outcomes) {
		return report, fmt.Errorf("all %d sentence validations failed", len(outcomes))
	}

	if p.generateCorrected && len(report.Assessment.Issues) > 0 {
		report.CorrectedDSS = p.correctedSummary(ctx, summaryText, sourceText, report.Assessment.Issues)
	}

	return report, nil
}

// ensureKorean translates English transcripts before validation
func (p *Pipeline) ensureKorean(ctx context.Context, sourceText string) (string, error) {
	if lang.Detect(sourceText) != "en" {
		return sourceText, nil
	}

	p.log.Info("transcript detected as English, translating")
	translated, err := p.translator.Translate(ctx, sourceText)
	if err != nil {
		return "", fmt.Errorf("translate transcript: %w", err)
	}
	return translated, nil
}

func (p *Pipeline) extractCompany(ctx context.Context, summaryText string) string {
	response, err := p.oracle.Complete(ctx, llm.Request{
		Prompt:      llm.BuildCompanyPrompt(summaryText),
		Temperature: 0,
		MaxTokens:   100,
	})
	if err != nil {
		p.log.Warn("company extraction failed", zap.Error(err))
		return unknownCompany
	}

	company := strings.TrimSpace(response)
	if company == "" {
		return unknownCompany
	}
	return company
}

// validateSections fans every sentence of every section through the worker
// pool. Completion order is arbitrary; the caller re-sorts.
func (p *Pipeline) validateSections(ctx context.Context, sourceText string, sections []model.Section, externalRef string) []model.ValidationOutcome {
	pool := worker.NewPool(p.sentenceWorkers)
	pool.Start()

	submitted := 0
	for _, section := range sections {
		for _, unit := range p.splitter.Split(section.Text) {
			pool.Submit(&sentenceJob{
				validator: p.validator,
				ctx:       ctx,
				request: validate.Request{
					SourceText:  sourceText,
					Sentence:    unit,
					Section:     section.Name,
					ExternalRef: externalRef,
				},
			})
			submitted++
		}
	}

	p.log.Debug("sentences submitted", zap.Int("count", submitted))

	results := pool.Wait()
	outcomes := make([]model.ValidationOutcome, 0, len(results))
	for _, result := range results {
		outcomes = append(outcomes, result.(*sentenceResult).outcome)
	}
	return outcomes
}

// correctedSummary produces the corrected DSS from the numeric comparison
// and the high-severity issue subset. Failures fall back to no corrected
// text; the report is still complete without it.
func (p *Pipeline) correctedSummary(ctx context.Context, summaryText, sourceText string, issues []model.ValidationOutcome) string {
	var corrections []model.NumericCorrection
	ec, dss, err := p.extractor.ExtractBoth(ctx, sourceText, summaryText)
	if err != nil {
		p.log.Warn("metric extraction for correction failed", zap.Error(err))
	} else {
		corrections = extract.Compare(ec, dss)
	}

	major := make([]model.ValidationOutcome, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity == model.SeverityCritical || issue.Severity == model.SeverityHigh {
			major = append(major, issue)
		}
	}

	if len(corrections) == 0 && len(major) == 0 {
		return ""
	}

	corrected, err := p.corrector.Correct(ctx, summaryText, sourceText, corrections, major)
	if err != nil {
		p.log.Warn("corrected summary generation failed", zap.Error(err))
		return ""
	}
	return corrected
}

func allErrored(outcomes []model.ValidationOutcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, outcome := range outcomes {
		if outcome.Status != model.StatusError {
			return false
		}
	}
	return true
}

// sentenceJob adapts one sentence validation to the worker pool. The run
// context rides along because Execute receives the pool's own context,
// which lives past the run.
type sentenceJob struct {
	validator *validate.SentenceValidator
	ctx       context.Context
	request   validate.Request
}

func (j *sentenceJob) Execute(_ context.Context) worker.Result {
	return &sentenceResult{outcome: j.validator.Validate(j.ctx, j.request)}
}

type sentenceResult struct {
	outcome model.ValidationOutcome
}

// GetError always returns nil; validation failures surface as ERROR
// outcomes, never as job errors.
func (r *sentenceResult) GetError() error {
	return nil
}
