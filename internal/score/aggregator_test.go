package score

import (
	"math/rand"
	"testing"

	"github.com/irlens/dsscheck/internal/model"
)

func issue(section model.SectionName, index int, severity model.Severity) model.ValidationOutcome {
	return model.ValidationOutcome{
		Section:       section,
		SentenceIndex: index,
		Status:        model.StatusIssueFound,
		Severity:      severity,
	}
}

func passed(section model.SectionName, index int) model.ValidationOutcome {
	return model.ValidationOutcome{
		Section:       section,
		SentenceIndex: index,
		Status:        model.StatusPassed,
		Severity:      model.SeverityLow,
	}
}

func TestAggregator_NoIssues(t *testing.T) {
	aggregator := NewAggregator()

	assessment := aggregator.Aggregate([]model.ValidationOutcome{
		passed(model.SectionPerformance, 1),
		passed(model.SectionGuidance, 1),
	})

	if assessment.AccuracyScore != 100 {
		t.Errorf("Expected score 100, got %d", assessment.AccuracyScore)
	}
	if assessment.Faithfulness != model.FaithfulnessGood {
		t.Errorf("Expected good, got %q", assessment.Faithfulness)
	}
	if assessment.MajorIssuesCount != 0 {
		t.Errorf("Expected 0 major issues, got %d", assessment.MajorIssuesCount)
	}
	if assessment.Summary != "DSS가 어닝콜 내용을 정확하게 반영했습니다." {
		t.Errorf("Unexpected summary: %q", assessment.Summary)
	}
}

func TestAggregator_CriticalAndHigh(t *testing.T) {
	aggregator := NewAggregator()

	assessment := aggregator.Aggregate([]model.ValidationOutcome{
		issue(model.SectionPerformance, 1, model.SeverityCritical),
		issue(model.SectionGuidance, 2, model.SeverityHigh),
	})

	if assessment.AccuracyScore != 70 {
		t.Errorf("Expected score 70, got %d", assessment.AccuracyScore)
	}
	if assessment.Faithfulness != model.FaithfulnessPoor {
		t.Errorf("Expected poor, got %q", assessment.Faithfulness)
	}
	if assessment.MajorIssuesCount != 2 {
		t.Errorf("Expected 2 major issues, got %d", assessment.MajorIssuesCount)
	}
}

func TestAggregator_ThreeHigh(t *testing.T) {
	aggregator := NewAggregator()

	var outcomes []model.ValidationOutcome
	for i := 1; i <= 3; i++ {
		outcomes = append(outcomes, issue(model.SectionPerformance, i, model.SeverityHigh))
	}

	assessment := aggregator.Aggregate(outcomes)
	if assessment.AccuracyScore != 70 {
		t.Errorf("Expected score 70, got %d", assessment.AccuracyScore)
	}
	if assessment.Faithfulness != model.FaithfulnessFair {
		t.Errorf("Expected fair for three high issues, got %q", assessment.Faithfulness)
	}
	if assessment.Summary != "주요 문제 3건 발견. 일부 수정 권장." {
		t.Errorf("Unexpected summary: %q", assessment.Summary)
	}
}

func TestAggregator_FourHigh(t *testing.T) {
	aggregator := NewAggregator()

	var outcomes []model.ValidationOutcome
	for i := 1; i <= 4; i++ {
		outcomes = append(outcomes, issue(model.SectionPerformance, i, model.SeverityHigh))
	}

	assessment := aggregator.Aggregate(outcomes)
	if assessment.AccuracyScore != 60 {
		t.Errorf("Expected score 60, got %d", assessment.AccuracyScore)
	}
	if assessment.Faithfulness != model.FaithfulnessPoor {
		t.Errorf("Expected poor, got %q", assessment.Faithfulness)
	}
	if assessment.Summary != "심각한 문제 0건, 주요 문제 4건 발견. 수정 필요." {
		t.Errorf("Unexpected summary: %q", assessment.Summary)
	}
}

func TestAggregator_SingleMedium(t *testing.T) {
	aggregator := NewAggregator()

	assessment := aggregator.Aggregate([]model.ValidationOutcome{
		issue(model.SectionQA, 1, model.SeverityMedium),
	})

	if assessment.AccuracyScore != 97 {
		t.Errorf("Expected score 97, got %d", assessment.AccuracyScore)
	}
	if assessment.Faithfulness != model.FaithfulnessGood {
		t.Errorf("Expected good, got %q", assessment.Faithfulness)
	}
	if assessment.MajorIssuesCount != 0 {
		t.Errorf("Expected 0 major issues, got %d", assessment.MajorIssuesCount)
	}
}

func TestAggregator_ScoreFloorsAtZero(t *testing.T) {
	aggregator := NewAggregator()

	var outcomes []model.ValidationOutcome
	for i := 1; i <= 10; i++ {
		outcomes = append(outcomes, issue(model.SectionPerformance, i, model.SeverityCritical))
	}

	assessment := aggregator.Aggregate(outcomes)
	if assessment.AccuracyScore != 0 {
		t.Errorf("Expected score floored at 0, got %d", assessment.AccuracyScore)
	}
}

func TestAggregator_ErrorsCarryNoPenalty(t *testing.T) {
	aggregator := NewAggregator()

	assessment := aggregator.Aggregate([]model.ValidationOutcome{
		{Section: model.SectionPerformance, SentenceIndex: 1, Status: model.StatusError, Severity: model.SeverityLow},
		passed(model.SectionPerformance, 2),
	})

	if assessment.AccuracyScore != 100 {
		t.Errorf("Expected errors unscored, got %d", assessment.AccuracyScore)
	}
	if len(assessment.Issues) != 0 {
		t.Errorf("Expected no issues listed, got %d", len(assessment.Issues))
	}
}

func TestAggregator_OrderIndependent(t *testing.T) {
	aggregator := NewAggregator()

	outcomes := []model.ValidationOutcome{
		issue(model.SectionPerformance, 1, model.SeverityCritical),
		issue(model.SectionPerformance, 2, model.SeverityHigh),
		issue(model.SectionGuidance, 1, model.SeverityMedium),
		passed(model.SectionQA, 1),
		issue(model.SectionQA, 2, model.SeverityLow),
	}

	want := aggregator.Aggregate(outcomes)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]model.ValidationOutcome, len(outcomes))
		copy(shuffled, outcomes)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := aggregator.Aggregate(shuffled)
		if got.AccuracyScore != want.AccuracyScore || got.Faithfulness != want.Faithfulness || got.Summary != want.Summary {
			t.Fatalf("Trial %d: assessment varies with input order: %+v vs %+v", trial, got, want)
		}
		for i := range want.Issues {
			if got.Issues[i] != want.Issues[i] {
				t.Fatalf("Trial %d: issue %d out of order: %+v vs %+v", trial, i, got.Issues[i], want.Issues[i])
			}
		}
	}
}

func TestSort_CanonicalOrder(t *testing.T) {
	outcomes := []model.ValidationOutcome{
		{Section: model.SectionQA, SentenceIndex: 1},
		{Section: model.SectionPerformance, SentenceIndex: 2},
		{Section: model.SectionGuidance, SentenceIndex: 1},
		{Section: model.SectionPerformance, SentenceIndex: 1},
	}

	sorted := Sort(outcomes)

	wantSections := []model.SectionName{
		model.SectionPerformance, model.SectionPerformance,
		model.SectionGuidance, model.SectionQA,
	}
	for i, want := range wantSections {
		if sorted[i].Section != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, sorted[i].Section)
		}
	}
	if sorted[0].SentenceIndex != 1 || sorted[1].SentenceIndex != 2 {
		t.Error("Expected sentence indices ascending within a section")
	}

	// Input untouched
	if outcomes[0].Section != model.SectionQA {
		t.Error("Expected Sort to copy, not mutate")
	}
}
