package model

import "time"

// Faithfulness is the qualitative document-level label
type Faithfulness string

const (
	FaithfulnessGood Faithfulness = "good"
	FaithfulnessFair Faithfulness = "fair"
	FaithfulnessPoor Faithfulness = "poor"
)

// Assessment is the document-level aggregate, recomputed fresh from the full
// outcome list each run and never mutated incrementally.
type Assessment struct {
	AccuracyScore    int                 `json:"accuracy_score"` // 0..100
	Faithfulness     Faithfulness        `json:"faithfulness"`
	MajorIssuesCount int                 `json:"major_issues_count"` // critical + high
	Summary          string              `json:"summary"`
	Issues           []ValidationOutcome `json:"issues"` // issue outcomes in (section, index) order
}

// OracleMeta records which oracle produced the outcomes
type OracleMeta struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Report is the complete result of one validation run
type Report struct {
	Company     string     `json:"company"`
	ValidatedAt time.Time  `json:"validated_at"`
	Oracle      OracleMeta `json:"oracle"`

	Sections []Section           `json:"sections"`
	Outcomes []ValidationOutcome `json:"outcomes"` // one per sentence, all statuses

	Assessment Assessment `json:"overall_assessment"`

	CorrectedDSS string `json:"corrected_dss,omitempty"`
}

// MetricRecord is one extracted financial metric.
// The schema mirrors the batch extraction contract: values stay in the
// units the source uses, never converted.
type MetricRecord struct {
	Company string  `json:"company"`
	Period  string  `json:"period"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Context string  `json:"context"`
	Type    string  `json:"type,omitempty"` // 실적|가이던스|목표|Q&A
}
