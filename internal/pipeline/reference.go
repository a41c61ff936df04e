package pipeline

import (
	"fmt"
	"strings"
)

// ReferenceHint derives a search-query hint for cross-checking numbers
// against public IR announcements. The pipeline does not search the web
// itself; the hint rides in the prompt so the oracle knows which official
// disclosure the numbers should agree with.
func ReferenceHint(company, sourceText string) string {
	if company == "" || company == unknownCompany {
		return ""
	}

	year := ""
	for _, candidate := range []string{"2025", "2024", "2026"} {
		if strings.Contains(sourceText, candidate) {
			year = candidate
			break
		}
	}
	if year == "" {
		return ""
	}

	quarter := ""
	switch {
	case strings.Contains(sourceText, "4분기") || strings.Contains(sourceText, "Q4"):
		quarter = "4분기"
	case strings.Contains(sourceText, "1분기") || strings.Contains(sourceText, "Q1"):
		quarter = "1분기"
	case strings.Contains(sourceText, "2분기") || strings.Contains(sourceText, "Q2"):
		quarter = "2분기"
	case strings.Contains(sourceText, "3분기") || strings.Contains(sourceText, "Q3"):
		quarter = "3분기"
	}

	query := strings.Join(strings.Fields(fmt.Sprintf("%s %s %s 실적 발표", company, year, quarter)), " ")
	return fmt.Sprintf("검색 쿼리: %s (외부 공식 자료와 교차 검증 필요)", query)
}
