package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/irlens/dsscheck/internal/model"
)

// Renderer formats validation reports for humans and machines
type Renderer struct {
	// IncludeFooter appends the tool footer to markdown output
	IncludeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{IncludeFooter: includeFooter}
}

// RenderJSON serializes the full report
func (r *Renderer) RenderJSON(report *model.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderMarkdown formats the report as a review document
func (r *Renderer) RenderMarkdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# DSS 검수 보고서: %s\n\n", report.Company)
	fmt.Fprintf(&b, "- 검수 일시: %s\n", report.ValidatedAt.Format("2006-01-02 15:04 UTC"))
	if report.Oracle.Provider != "" {
		fmt.Fprintf(&b, "- 검수 모델: %s / %s\n", report.Oracle.Provider, report.Oracle.Model)
	}
	b.WriteString("\n## 종합 평가\n\n")
	fmt.Fprintf(&b, "- 정확도 점수: **%d / 100**\n", report.Assessment.AccuracyScore)
	fmt.Fprintf(&b, "- 충실도: **%s**\n", report.Assessment.Faithfulness)
	fmt.Fprintf(&b, "- 주요 문제: %d건\n\n", report.Assessment.MajorIssuesCount)
	fmt.Fprintf(&b, "%s\n", report.Assessment.Summary)

	if len(report.Assessment.Issues) > 0 {
		b.WriteString("\n## 발견된 문제\n")
		for i, issue := range report.Assessment.Issues {
			fmt.Fprintf(&b, "\n### %d. [%s] %s (%s)\n\n", i+1, issue.IssueType, issue.Metric, issue.Severity)
			fmt.Fprintf(&b, "- 섹션: %s (문장 %d)\n", issue.Section, issue.SentenceIndex)
			fmt.Fprintf(&b, "- DSS 문장: %s\n", issue.Statement)
			if issue.Context != "" {
				fmt.Fprintf(&b, "- 어닝콜 원문: %s\n", issue.Context)
			}
			fmt.Fprintf(&b, "- 문제: %s\n", issue.Issue)
			fmt.Fprintf(&b, "- 수정안: %s\n", issue.Recommendation)
		}
	}

	if report.CorrectedDSS != "" {
		b.WriteString("\n## 수정된 DSS\n\n")
		b.WriteString(report.CorrectedDSS)
		b.WriteString("\n")
	}

	if r.IncludeFooter {
		b.WriteString("\n---\n생성: dsscheck\n")
	}

	return b.String()
}

// PrintSummary writes the one-screen run summary, typically to stderr so
// the report on stdout stays machine-readable.
func (r *Renderer) PrintSummary(w io.Writer, report *model.Report) {
	var passed, found, errored int
	for _, outcome := range report.Outcomes {
		switch outcome.Status {
		case model.StatusPassed:
			passed++
		case model.StatusIssueFound:
			found++
		case model.StatusError:
			errored++
		}
	}

	fmt.Fprintf(w, "회사: %s\n", report.Company)
	fmt.Fprintf(w, "문장: %d개 검증 (통과 %d, 문제 %d, 오류 %d)\n",
		len(report.Outcomes), passed, found, errored)
	fmt.Fprintf(w, "점수: %d/100 (%s)\n", report.Assessment.AccuracyScore, report.Assessment.Faithfulness)
	fmt.Fprintf(w, "%s\n", report.Assessment.Summary)
}
