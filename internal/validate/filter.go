// Package validate turns raw oracle responses into per-sentence outcomes.
package validate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/irlens/dsscheck/internal/decode"
	"github.com/irlens/dsscheck/internal/model"
)

// bannedRecommendationPhrases reject deletion-style advice. A recommendation
// must be a replacement sentence the user can paste into the summary, not an
// instruction to remove content.
var bannedRecommendationPhrases = []string{"삭제", "제거", "없애", "지우", "빼"}

// Filter drops issue records that cannot be acted on and fills in defaults
// for fields the oracle left blank.
type Filter struct {
	log *zap.Logger
}

// NewFilter creates a filter. A nil logger disables rejection auditing.
func NewFilter(log *zap.Logger) *Filter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Filter{log: log}
}

// Apply returns the issues that survive filtering, with defaults applied.
// The section name fills in a missing type field; a type the oracle did
// report is kept as-is.
func (f *Filter) Apply(issues []decode.RawIssue, section model.SectionName) []decode.RawIssue {
	kept := make([]decode.RawIssue, 0, len(issues))
	for _, issue := range issues {
		if banned, phrase := deletionAdvice(issue.Recommendation); banned {
			f.log.Debug("rejected deletion-style recommendation",
				zap.String("section", string(section)),
				zap.String("phrase", phrase),
				zap.String("recommendation", issue.Recommendation))
			continue
		}

		if strings.TrimSpace(issue.Type) == "" {
			issue.Type = string(section)
		}
		if strings.TrimSpace(issue.Metric) == "" {
			issue.Metric = "전반적 내용"
		}
		kept = append(kept, issue)
	}
	return kept
}

// deletionAdvice reports whether the recommendation tells the user to delete
// content, and which banned phrase matched.
func deletionAdvice(recommendation string) (bool, string) {
	for _, phrase := range bannedRecommendationPhrases {
		if strings.Contains(recommendation, phrase) {
			return true, phrase
		}
	}
	return false, ""
}
