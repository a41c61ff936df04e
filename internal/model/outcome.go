package model

import "strings"

// Status is the terminal state of a single sentence validation
type Status string

const (
	StatusPassed     Status = "passed"      // No surviving issue
	StatusIssueFound Status = "issue_found" // At least one issue survived the filter
	StatusError      Status = "error"       // Oracle call failed; fail-soft, not retried
)

// IssueType categorizes what is wrong with a summary sentence.
// Values are the Korean labels the oracle is instructed to emit.
type IssueType string

const (
	IssueNumericError      IssueType = "수치오류" // Number differs from the transcript
	IssueExaggeration      IssueType = "과장"   // More positive than the transcript
	IssueUnderstatement    IssueType = "축소"   // Negatives or risks downplayed
	IssueOverinterpretation IssueType = "확대해석" // Possibility stated as certainty
	IssueMissingContext    IssueType = "문맥누락" // Conditions or background dropped
	IssueIgnoredCondition  IssueType = "조건무시" // "만약/~인 경우" qualifiers removed
)

// Severity ranks how serious an issue is
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ParseSeverity normalizes a free-form severity string from the oracle.
// Anything unrecognized maps to Low.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ValidationOutcome is the result of validating one sentence.
// Exactly one outcome exists per SentenceUnit. For passed sentences
// Recommendation equals the original sentence verbatim; that equality is the
// passed-state contract, not a coincidence.
type ValidationOutcome struct {
	Section       SectionName `json:"type"`
	SentenceIndex int         `json:"sentence_index"`
	Status        Status      `json:"validation_status"`

	IssueType IssueType `json:"issue_type,omitempty"`
	Severity  Severity  `json:"severity"`

	Sentence       string `json:"dss_sentence"`
	Statement      string `json:"dss_statement"`
	Context        string `json:"earning_call_context,omitempty"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`

	Metric  string `json:"metric"`
	Company string `json:"company"`
	Period  string `json:"period"`
}
