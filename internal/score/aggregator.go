// Package score computes the document-level assessment from per-sentence
// outcomes.
package score

import (
	"fmt"
	"sort"

	"github.com/irlens/dsscheck/internal/model"
)

// Severity weights subtracted from a perfect score per issue
const (
	criticalPenalty = 20
	highPenalty     = 10
	minorPenalty    = 3
)

// Aggregator folds validation outcomes into an Assessment. The fold is
// deterministic: the input is re-sorted into canonical order first, so the
// concurrent fan-out upstream never changes the result.
type Aggregator struct{}

// NewAggregator creates an aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes the assessment over the full outcome list. Only
// issue-found outcomes count toward the score; passed and error outcomes
// carry no penalty.
func (a *Aggregator) Aggregate(outcomes []model.ValidationOutcome) model.Assessment {
	ordered := Sort(outcomes)

	var critical, high, minor int
	issues := make([]model.ValidationOutcome, 0)
	for _, outcome := range ordered {
		if outcome.Status != model.StatusIssueFound {
			continue
		}
		issues = append(issues, outcome)
		switch outcome.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityHigh:
			high++
		default:
			minor++
		}
	}

	score := 100 - (critical*criticalPenalty + high*highPenalty + minor*minorPenalty)
	if score < 0 {
		score = 0
	}

	return model.Assessment{
		AccuracyScore:    score,
		Faithfulness:     faithfulness(critical, high),
		MajorIssuesCount: critical + high,
		Summary:          summaryText(critical, high, minor),
		Issues:           issues,
	}
}

// Sort returns a copy of outcomes in canonical (section, sentence index)
// order. The sort is stable so equal keys keep their relative input order.
func Sort(outcomes []model.ValidationOutcome) []model.ValidationOutcome {
	ordered := make([]model.ValidationOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Section != ordered[j].Section {
			return ordered[i].Section.Rank() < ordered[j].Section.Rank()
		}
		return ordered[i].SentenceIndex < ordered[j].SentenceIndex
	})
	return ordered
}

func faithfulness(critical, high int) model.Faithfulness {
	switch {
	case critical > 0 || high > 3:
		return model.FaithfulnessPoor
	case high > 0:
		return model.FaithfulnessFair
	default:
		return model.FaithfulnessGood
	}
}

// summaryText branches on the same thresholds as faithfulness, so the
// label and the summary sentence never disagree.
func summaryText(critical, high, minor int) string {
	switch {
	case critical == 0 && high == 0 && minor == 0:
		return "DSS가 어닝콜 내용을 정확하게 반영했습니다."
	case critical > 0 || high > 3:
		return fmt.Sprintf("심각한 문제 %d건, 주요 문제 %d건 발견. 수정 필요.", critical, high)
	case high > 0:
		return fmt.Sprintf("주요 문제 %d건 발견. 일부 수정 권장.", high)
	default:
		return fmt.Sprintf("경미한 문제 %d건만 발견. 전반적으로 양호.", minor)
	}
}
