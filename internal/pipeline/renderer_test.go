package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/irlens/dsscheck/internal/model"
)

func sampleReport() *model.Report {
	issue := model.ValidationOutcome{
		Section:        model.SectionPerformance,
		SentenceIndex:  1,
		Status:         model.StatusIssueFound,
		IssueType:      model.IssueNumericError,
		Severity:       model.SeverityCritical,
		Sentence:       "매출은 2조원이다.",
		Statement:      "매출은 2조원이다.",
		Context:        "매출은 1조원을 기록했습니다.",
		Issue:          "숫자가 원문과 다름",
		Recommendation: "매출은 1조원이다.",
		Metric:         "매출액",
		Company:        "삼성전자",
		Period:         "2025-Q4",
	}

	return &model.Report{
		Company:     "삼성전자",
		ValidatedAt: time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC),
		Oracle:      model.OracleMeta{Provider: "anthropic", Model: "claude-3-haiku-20240307"},
		Sections:    []model.Section{{Name: model.SectionPerformance, Text: "매출은 2조원이다."}},
		Outcomes:    []model.ValidationOutcome{issue},
		Assessment: model.Assessment{
			AccuracyScore:    80,
			Faithfulness:     model.FaithfulnessPoor,
			MajorIssuesCount: 1,
			Summary:          "심각한 문제 1건, 주요 문제 0건 발견. 수정 필요.",
			Issues:           []model.ValidationOutcome{issue},
		},
		CorrectedDSS: "매출은 1조원이다.",
	}
}

func TestRenderer_JSONRoundTrips(t *testing.T) {
	renderer := NewRenderer(true)

	data, err := renderer.RenderJSON(sampleReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded.Company != "삼성전자" {
		t.Errorf("Expected company preserved, got %q", decoded.Company)
	}
	if decoded.Assessment.AccuracyScore != 80 {
		t.Errorf("Expected score preserved, got %d", decoded.Assessment.AccuracyScore)
	}
	if decoded.Outcomes[0].Status != model.StatusIssueFound {
		t.Errorf("Expected outcome status preserved, got %q", decoded.Outcomes[0].Status)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	renderer := NewRenderer(true)

	md := renderer.RenderMarkdown(sampleReport())

	for _, want := range []string{
		"# DSS 검수 보고서: 삼성전자",
		"**80 / 100**",
		"**poor**",
		"[수치오류]",
		"매출은 1조원이다.",
		"## 수정된 DSS",
		"생성: dsscheck",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestRenderer_MarkdownNoFooter(t *testing.T) {
	renderer := NewRenderer(false)

	md := renderer.RenderMarkdown(sampleReport())
	if strings.Contains(md, "생성: dsscheck") {
		t.Error("Expected footer omitted")
	}
}

func TestRenderer_PrintSummary(t *testing.T) {
	renderer := NewRenderer(true)

	var b strings.Builder
	renderer.PrintSummary(&b, sampleReport())
	out := b.String()

	if !strings.Contains(out, "회사: 삼성전자") {
		t.Errorf("Expected company line, got %q", out)
	}
	if !strings.Contains(out, "통과 0, 문제 1, 오류 0") {
		t.Errorf("Expected status counts, got %q", out)
	}
	if !strings.Contains(out, "80/100") {
		t.Errorf("Expected score line, got %q", out)
	}
}
