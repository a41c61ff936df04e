package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/irlens/dsscheck/internal/llm"
	"github.com/irlens/dsscheck/internal/model"
)

const testTranscript = `안녕하십니까. 2025년 4분기 실적을 발표하겠습니다.
매출은 1조원을 기록했습니다. 영업이익은 500억원입니다.`

const testSummary = `## 실적
매출은 1조원을 기록했다. 영업이익은 500억원이다.

## 가이던스
내년 매출 목표는 1.2조원이다.`

// routingOracle answers by prompt kind: company extraction, sentence
// validation, metric extraction, correction.
type routingOracle struct {
	company        string
	sentenceAnswer string
	sentenceErr    error
	sentenceCalls  int
}

func (o *routingOracle) Name() string  { return "routing" }
func (o *routingOracle) Model() string { return "routing-model" }

func (o *routingOracle) Complete(ctx context.Context, req llm.Request) (string, error) {
	switch {
	case strings.Contains(req.Prompt, "회사명만 추출"):
		return o.company, nil
	case strings.Contains(req.Prompt, "검증할 DSS 문장"):
		o.sentenceCalls++
		if o.sentenceErr != nil {
			return "", o.sentenceErr
		}
		return o.sentenceAnswer, nil
	case strings.Contains(req.Prompt, "두 개의 문서에서"):
		return `{"earning_call": [], "dss": []}`, nil
	case strings.Contains(req.Prompt, "발견된 숫자 오류"):
		return `{"corrected_dss": "수정된 요약"}`, nil
	default:
		return `{"issues": []}`, nil
	}
}

func (o *routingOracle) IsAvailable(ctx context.Context) bool { return true }

func newTestPipeline(oracle llm.Oracle) *Pipeline {
	cfg := model.DefaultConfig()
	cfg.Concurrency.SentenceWorkers = 2
	return New(oracle, cfg, nil, nil)
}

func TestPipeline_CleanSummary(t *testing.T) {
	oracle := &routingOracle{company: "삼성전자", sentenceAnswer: `{"issues": []}`}
	p := newTestPipeline(oracle)

	report, err := p.Validate(context.Background(), testTranscript, testSummary, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Company != "삼성전자" {
		t.Errorf("Expected extracted company, got %q", report.Company)
	}
	if oracle.sentenceCalls != 3 {
		t.Errorf("Expected 3 sentence validations, got %d", oracle.sentenceCalls)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(report.Outcomes))
	}
	if report.Assessment.AccuracyScore != 100 {
		t.Errorf("Expected score 100, got %d", report.Assessment.AccuracyScore)
	}
	if report.CorrectedDSS != "" {
		t.Errorf("Expected no corrected summary for a clean run, got %q", report.CorrectedDSS)
	}
	if report.Oracle.Provider != "routing" {
		t.Errorf("Expected oracle metadata recorded, got %+v", report.Oracle)
	}
}

func TestPipeline_OutcomesInCanonicalOrder(t *testing.T) {
	oracle := &routingOracle{company: "회사", sentenceAnswer: `{"issues": []}`}
	p := newTestPipeline(oracle)

	report, err := p.Validate(context.Background(), testTranscript, testSummary, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for i := 1; i < len(report.Outcomes); i++ {
		prev, cur := report.Outcomes[i-1], report.Outcomes[i]
		if prev.Section.Rank() > cur.Section.Rank() {
			t.Fatalf("Outcome %d out of section order: %q after %q", i, cur.Section, prev.Section)
		}
		if prev.Section == cur.Section && prev.SentenceIndex > cur.SentenceIndex {
			t.Fatalf("Outcome %d out of index order within %q", i, cur.Section)
		}
	}
}

func TestPipeline_IssueProducesCorrectedSummary(t *testing.T) {
	oracle := &routingOracle{company: "회사", sentenceAnswer: `{"issues": [{
		"issue_type": "수치오류",
		"severity": "Critical",
		"dss_statement": "매출은 2조원이다.",
		"issue": "숫자 불일치",
		"recommendation": "매출은 1조원이다."
	}]}`}
	p := newTestPipeline(oracle)

	report, err := p.Validate(context.Background(), testTranscript, testSummary, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(report.Assessment.Issues) != 3 {
		t.Errorf("Expected every sentence flagged, got %d issues", len(report.Assessment.Issues))
	}
	if report.Assessment.Faithfulness != model.FaithfulnessPoor {
		t.Errorf("Expected poor faithfulness, got %q", report.Assessment.Faithfulness)
	}
	if report.CorrectedDSS != "수정된 요약" {
		t.Errorf("Expected corrected summary, got %q", report.CorrectedDSS)
	}
}

func TestPipeline_CompanyBackfilledIntoOutcomes(t *testing.T) {
	oracle := &routingOracle{company: "카카오", sentenceAnswer: `{"issues": []}`}
	p := newTestPipeline(oracle)

	report, err := p.Validate(context.Background(), testTranscript, testSummary, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, outcome := range report.Outcomes {
		if outcome.Company != "카카오" {
			t.Errorf("Expected company backfilled, got %q", outcome.Company)
		}
	}
}

func TestPipeline_AllSentenceErrorsReturnPartialReport(t *testing.T) {
	oracle := &routingOracle{company: "회사", sentenceErr: errors.New("oracle down")}
	p := newTestPipeline(oracle)

	report, err := p.Validate(context.Background(), testTranscript, testSummary, "")
	if err == nil {
		t.Fatal("Expected error when every sentence fails")
	}
	if report == nil {
		t.Fatal("Expected partial report alongside the error")
	}
	for _, outcome := range report.Outcomes {
		if outcome.Status != model.StatusError {
			t.Errorf("Expected error outcomes, got %q", outcome.Status)
		}
	}
	if report.Assessment.AccuracyScore != 100 {
		t.Errorf("Expected errors unscored, got %d", report.Assessment.AccuracyScore)
	}
}

func TestPipeline_EmptyInputs(t *testing.T) {
	p := newTestPipeline(&routingOracle{company: "회사"})

	if _, err := p.Validate(context.Background(), "", testSummary, ""); err == nil {
		t.Error("Expected error for empty transcript")
	}
	if _, err := p.Validate(context.Background(), testTranscript, "   ", ""); err == nil {
		t.Error("Expected error for empty summary")
	}
}

func TestPipeline_CompanyExtractionFailureFallsBack(t *testing.T) {
	oracle := &routingOracle{company: "", sentenceAnswer: `{"issues": []}`}
	p := newTestPipeline(oracle)

	report, err := p.Validate(context.Background(), testTranscript, testSummary, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.Company != "미상" {
		t.Errorf("Expected fallback company 미상, got %q", report.Company)
	}
}

func TestReferenceHint(t *testing.T) {
	hint := ReferenceHint("삼성전자", testTranscript)
	if !strings.Contains(hint, "삼성전자 2025 4분기 실적 발표") {
		t.Errorf("Expected year and quarter in hint, got %q", hint)
	}

	if hint := ReferenceHint("미상", testTranscript); hint != "" {
		t.Errorf("Expected no hint for unknown company, got %q", hint)
	}
	if hint := ReferenceHint("", testTranscript); hint != "" {
		t.Errorf("Expected no hint without a company, got %q", hint)
	}
	if hint := ReferenceHint("삼성전자", "연도 없는 원문"); hint != "" {
		t.Errorf("Expected no hint without a year, got %q", hint)
	}
}
