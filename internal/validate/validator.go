package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/irlens/dsscheck/internal/cache"
	"github.com/irlens/dsscheck/internal/decode"
	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
	"github.com/irlens/dsscheck/internal/worker"
)

// responseTTL bounds how long a cached oracle response is reused
const responseTTL = 24 * time.Hour

// Request carries everything needed to validate one summary sentence
type Request struct {
	SourceText  string
	Sentence    model.SentenceUnit
	Section     model.SectionName
	ExternalRef string
}

// SentenceValidator checks one summary sentence against the transcript via
// the oracle. It is safe for concurrent use; the shared limiter keeps the
// fan-out inside the provider's request budget.
type SentenceValidator struct {
	oracle  llm.Oracle
	filter  *Filter
	limiter *worker.Limiter
	cache   cache.Cache
	log     *zap.Logger
}

// NewSentenceValidator creates a validator. cache may be nil to disable
// response caching.
func NewSentenceValidator(oracle llm.Oracle, limiter *worker.Limiter, responseCache cache.Cache, log *zap.Logger) *SentenceValidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SentenceValidator{
		oracle:  oracle,
		filter:  NewFilter(log),
		limiter: limiter,
		cache:   responseCache,
		log:     log,
	}
}

// Validate produces exactly one outcome for the sentence. Oracle failures
// become ERROR outcomes rather than aborting the run; a single bad call must
// not lose the rest of the document.
func (v *SentenceValidator) Validate(ctx context.Context, req Request) model.ValidationOutcome {
	prompt := llm.BuildSentencePrompt(req.SourceText, req.Sentence.Text, req.Section, req.ExternalRef)

	response, err := v.complete(ctx, prompt)
	if err != nil {
		v.log.Warn("sentence validation failed",
			zap.String("section", string(req.Section)),
			zap.Int("sentence_index", req.Sentence.Index),
			zap.Error(err))
		return v.errorOutcome(req, err)
	}

	result := decode.Decode(response)
	if result.Fallback {
		v.log.Debug("unparseable oracle response treated as clean",
			zap.String("section", string(req.Section)),
			zap.Int("sentence_index", req.Sentence.Index))
	}

	issues := v.filter.Apply(result.Issues, req.Section)
	if len(issues) == 0 {
		return v.passedOutcome(req)
	}
	return v.issueOutcome(req, issues[0])
}

// complete runs one rate-limited, cached oracle call
func (v *SentenceValidator) complete(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(v.oracle.Name(), v.oracle.Model(), prompt)
	if v.cache != nil {
		if cached, found := v.cache.Get(key); found {
			return string(cached), nil
		}
	}

	if err := v.limiter.Wait(ctx, v.oracle.Name()); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	response, err := v.oracle.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}

	if v.cache != nil {
		if err := v.cache.Set(key, []byte(response), responseTTL); err != nil {
			v.log.Debug("failed to cache oracle response", zap.Error(err))
		}
	}
	return response, nil
}

func (v *SentenceValidator) passedOutcome(req Request) model.ValidationOutcome {
	return model.ValidationOutcome{
		Section:        req.Section,
		SentenceIndex:  req.Sentence.Index,
		Status:         model.StatusPassed,
		Severity:       model.SeverityLow,
		Sentence:       req.Sentence.Text,
		Statement:      req.Sentence.Text,
		Issue:          "",
		Recommendation: req.Sentence.Text,
		Metric:         "일치함",
	}
}

func (v *SentenceValidator) issueOutcome(req Request, issue decode.RawIssue) model.ValidationOutcome {
	statement := strings.TrimSpace(issue.DSSStatement)
	if statement == "" {
		statement = req.Sentence.Text
	}
	recommendation := strings.TrimSpace(issue.Recommendation)
	if recommendation == "" {
		recommendation = req.Sentence.Text
	}

	return model.ValidationOutcome{
		Section:        req.Section,
		SentenceIndex:  req.Sentence.Index,
		Status:         model.StatusIssueFound,
		IssueType:      model.IssueType(issue.IssueType),
		Severity:       model.ParseSeverity(issue.Severity),
		Sentence:       req.Sentence.Text,
		Statement:      statement,
		Context:        issue.EarningCallContext,
		Issue:          issue.Issue,
		Recommendation: recommendation,
		Metric:         issue.Metric,
		Company:        issue.Company,
		Period:         issue.Period,
	}
}

func (v *SentenceValidator) errorOutcome(req Request, err error) model.ValidationOutcome {
	return model.ValidationOutcome{
		Section:        req.Section,
		SentenceIndex:  req.Sentence.Index,
		Status:         model.StatusError,
		Severity:       model.SeverityLow,
		Sentence:       req.Sentence.Text,
		Statement:      req.Sentence.Text,
		Issue:          fmt.Sprintf("검증 중 오류 발생: %v", err),
		Recommendation: req.Sentence.Text,
		Metric:         "검수 오류",
	}
}
