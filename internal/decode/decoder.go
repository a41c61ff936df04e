// Package decode recovers structured results from raw oracle output.
//
// The oracle is an external text generator whose responses are routinely
// wrapped in markdown fences, truncated by token limits, or littered with
// control characters. Decoding applies repair stages under increasing
// pressure and, when nothing parses, falls back to a "no issue" result
// instead of failing, so a run over a large document can finish even when
// a minority of responses are malformed.
package decode

import (
	"encoding/json"
	"regexp"
	"strings"
)

// RawIssue is one issue record as emitted by the oracle
type RawIssue struct {
	Type               string `json:"type"`
	Company            string `json:"company"`
	Period             string `json:"period"`
	Metric             string `json:"metric"`
	IssueType          string `json:"issue_type"`
	Severity           string `json:"severity"`
	DSSStatement       string `json:"dss_statement"`
	EarningCallContext string `json:"earning_call_context"`
	Issue              string `json:"issue"`
	Recommendation     string `json:"recommendation"`
}

// Result is the decoder's terminal output. Fallback distinguishes "the
// oracle verified this sentence clean" (Issues empty, Fallback false) from
// "the response was empty or unrecoverable and was treated as clean"
// (Fallback true). Callers that surface both as passed can still audit the
// difference.
type Result struct {
	Issues   []RawIssue
	Fallback bool
}

type envelope struct {
	Issues []RawIssue `json:"issues"`
}

var (
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	trailingCommas = regexp.MustCompile(`,(\s*[}\]])`)
)

// Decode runs the repair ladder over one sentence-validation response
func Decode(raw string) Result {
	for _, text := range Candidates(raw) {
		var env envelope
		if err := json.Unmarshal([]byte(text), &env); err == nil {
			return Result{Issues: env.Issues}
		}
	}
	return Result{Fallback: true}
}

// Candidates returns the repair-ladder texts in the order they should be
// parsed: fence-stripped, control-character-stripped, trailing-comma-fixed,
// and truncated to the last complete bracket. Blank input yields nothing.
func Candidates(raw string) []string {
	text := strings.TrimSpace(Clean(raw))
	if text == "" {
		return nil
	}

	candidates := []string{text}

	stripped := controlChars.ReplaceAllString(text, "")
	if stripped != text {
		candidates = append(candidates, stripped)
	}

	fixed := trailingCommas.ReplaceAllString(stripped, "$1")
	if fixed != stripped {
		candidates = append(candidates, fixed)
	}

	if cut := truncateToBracket(fixed); cut != "" && cut != fixed {
		candidates = append(candidates, cut)
	}

	return candidates
}

// Clean strips a single markdown code-fence wrapper if present: everything
// between the opening fence and the next closing fence, or to the end of the
// text when the fence is unterminated.
func Clean(raw string) string {
	text := raw
	switch {
	case strings.Contains(text, "```json"):
		start := strings.Index(text, "```json") + len("```json")
		remaining := text[start:]
		if end := strings.Index(remaining, "```"); end != -1 {
			return strings.TrimSpace(remaining[:end])
		}
		return strings.TrimSpace(remaining)
	case strings.Contains(text, "```"):
		start := strings.Index(text, "```") + len("```")
		remaining := text[start:]
		if end := strings.Index(remaining, "```"); end != -1 {
			return strings.TrimSpace(remaining[:end])
		}
		return strings.TrimSpace(remaining)
	}
	return text
}

// truncateToBracket cuts the text at the last closing brace or bracket,
// recovering responses truncated mid-object by token limits. Returns ""
// when no complete bracket exists.
func truncateToBracket(text string) string {
	last := strings.LastIndex(text, "}")
	if b := strings.LastIndex(text, "]"); b > last {
		last = b
	}
	if last <= 0 {
		return ""
	}
	return text[:last+1]
}
