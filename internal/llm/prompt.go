package llm

import (
	"fmt"
	"strings"

	"github.com/irlens/dsscheck/internal/model"
)

// Character budgets for prompt inputs. Truncation is rune-safe; transcripts
// beyond the budget are cut, which can hide evidence late in very long calls.
const (
	sourceMaxRunes     = 30000
	batchSourceRunes   = 15000
	batchSummaryRunes  = 10000
	correctionDSSRunes = 10000
	correctionECRunes  = 5000
	companySampleRunes = 1000
)

// BuildSentencePrompt constructs the per-sentence validation prompt. The
// oracle must answer with an {"issues": [...]} JSON object, empty when the
// sentence is faithful to the transcript.
func BuildSentencePrompt(sourceText string, sentence string, section model.SectionName, externalRef string) string {
	externalContext := ""
	if externalRef != "" {
		externalContext = fmt.Sprintf(`

**외부 공식 자료 참고:**
<external_reference>
%s
</external_reference>

**중요**: 숫자 검증 시 외부 공식 자료(뉴스, IR 발표자료)와도 교차 검증하세요.
- 어닝콜 원문의 숫자가 공식 발표 자료와 일치하는지 확인
- DSS의 숫자가 원문을 정확히 반영했는지 검증
- 단위 변환이 정확한지 확인 (조원, 억원 등)
`, externalRef)
	}

	return fmt.Sprintf(`당신은 IR 자료 검수 전문가입니다.

아래는 DSS의 **%s** 섹션에서 추출한 **한 개의 문장**입니다. 이 문장을 어닝콜 원문과 비교하여 검증하세요.

**어닝콜 원문 (전체):**
<earning_call>
%s
</earning_call>

**검증할 DSS 문장:**
<dss_sentence>
%s
</dss_sentence>
%s
**검증 방법:**
1. 위의 DSS 문장에서 주장하는 내용을 파악하세요
2. 어닝콜 원문에서 해당 내용의 근거를 찾으세요
3. **숫자는 특히 주의깊게 검증** - 원문과 정확히 일치하는지 확인
4. 다음 문제가 있는지 체크하세요:
   - **수치오류**: 숫자가 원문과 다름 (가장 중요!)
   - **과장**: 원문보다 더 긍정적으로 표현
   - **축소**: 부정적 내용이나 리스크를 축소/생략
   - **확대해석**: "~할 수 있다" → "~할 것이다" 같은 확정적 변경
   - **문맥누락**: 중요한 조건, 단서, 배경 설명 생략
   - **조건무시**: "만약", "~인 경우" 같은 조건 제거

**수정안 작성 원칙 (매우 중요!):**
절대 금지 사항:
   - "삭제하세요", "제거하세요", "삭제", "제거" 같은 표현 금지
   - "없애세요", "지우세요", "빼세요" 같은 표현 금지
   - 설명이나 지시문 금지 (예: "검토가 필요합니다", "수정해야 합니다")

반드시 지켜야 할 사항:
   1. recommendation은 **완전한 문장**만 작성하세요
   2. 원래 DSS 문장을 기반으로 **수정된 버전**을 제공하세요
   3. 숫자가 틀렸다면 올바른 숫자로 **교체한 문장**
   4. 문맥이 부족하다면 필요한 정보를 **추가한 문장**
   5. 과장되었다면 정확한 표현으로 **수정한 문장**
   6. 모든 recommendation은 **그대로 DSS에 복사-붙여넣기 가능**해야 합니다

경고: 삭제/제거 권장은 시스템에서 자동으로 필터링되어 제외됩니다!

**반환 형식 (JSON):**
{
  "issues": [
    {
      "type": "%s",
      "company": "회사명 (DSS에서 추출)",
      "period": "기간 (예: 2025-FY, 2025-Q4)",
      "metric": "관련 지표 (예: 매출, 영업이익)",
      "issue_type": "수치오류|과장|축소|확대해석|문맥누락|조건무시",
      "severity": "Critical|High|Medium|Low",
      "dss_statement": "문제가 있는 DSS 문장 (위의 문장 그대로)",
      "earning_call_context": "어닝콜 원문의 해당 부분",
      "issue": "무엇이 잘못되었는지",
      "recommendation": "수정된 완전한 문장 (원문을 수정한 버전, 삭제 아님)"
    }
  ]
}

**중요 지침:**
- 문제가 없으면 빈 issues 배열 반환: {"issues": []}
- 문제가 있을 때만 issues에 포함하세요
- 확실한 근거가 있을 때만 문제로 지적하세요
- **recommendation은 항상 완전한 문장이어야 합니다** (삭제나 제거가 아닌 수정)

JSON만 반환하세요. 설명이나 마크다운은 넣지 마세요.`,
		section, truncateRunes(sourceText, sourceMaxRunes), sentence, externalContext, section)
}

// BuildBatchExtractionPrompt asks for both documents' financial metrics in
// one combined request, returned as {"earning_call": [...], "dss": [...]}.
func BuildBatchExtractionPrompt(ecText, dssText string) string {
	return fmt.Sprintf(`당신은 재무 분석 및 IR 검수 전문가입니다.

두 개의 문서에서 재무 지표, 가이던스, 주요 발언을 추출해주세요:

**문서 1 (어닝콜 원문):**
<earning_call>
%s
</earning_call>

**문서 2 (DSS 요약):**
<dss>
%s
</dss>

각 문서에서 다음 정보를 추출하여 JSON 형식으로 반환해주세요:

{
  "earning_call": [
    {"company": "...", "period": "2024-Q4", "metric": "매출액", "value": 1250, "unit": "억원", "context": "원문 전체 문장", "type": "실적|가이던스|목표|Q&A"}
  ],
  "dss": [
    {"company": "...", "period": "2024-Q4", "metric": "매출액", "value": 1250, "unit": "억원", "context": "원문 전체 문장", "type": "실적|가이던스|목표|Q&A"}
  ]
}

**추출 규칙:**
1. **실적 수치**: 발표된 모든 실적 숫자 (매출, 영업이익, 순이익 등)
2. **가이던스**: 향후 전망, 목표치, 예상 수치
3. **Q&A 핵심 내용**: Q&A에서 언급된 중요한 숫자나 발언
4. **문맥 정확히 포함**: context에는 숫자가 언급된 전체 문장을 포함
5. **확정 vs 예상 구분**: "예상", "목표", "전망" 등의 표현이 있으면 type을 "가이던스"로
6. **조건부 발언 주의**: "만약", "경우" 등 조건이 붙은 발언은 context에 조건까지 포함

JSON만 반환하세요.`,
		truncateRunes(ecText, batchSourceRunes), truncateRunes(dssText, batchSummaryRunes))
}

// BuildExtractionPrompt asks for one document's financial metrics as a JSON
// array. Used as the fallback when the combined request comes back in an
// unusable shape.
func BuildExtractionPrompt(text string, role model.DocumentRole) string {
	return fmt.Sprintf(`당신은 재무 분석 전문가입니다. 다음 텍스트에서 모든 재무 지표를 추출하여 구조화된 JSON 형식으로 변환해주세요.

**중요:** 단순히 숫자를 추출하는 것이 아니라, **각 문장의 의미와 맥락을 정확히 이해**하여 추출해야 합니다.

<document_type>%s</document_type>

<text>
%s
</text>

**핵심 원칙:**
1. **기간 식별 - 명시적 언급 우선:** "전년", "지난해" 같은 상대 표현에 속지 말고 문맥의 절대 연도/분기를 찾으세요
2. **값 추출:** 지표명과 직접 연결된 값을 선택하세요. 증감률(전년 대비 %%)은 실제 값이 아닙니다
3. **목표 vs 실적 구분:** "목표", "계획", "전망"은 미래 기간의 목표값, "실적", "기록", "달성"은 실제값

**추출 규칙:**
1. 각 수치에 대해: company, period (예: "2024-Q4", "2024-연간"), metric, value, unit, context (수치가 언급된 원문 전체 문장, 최대 150자)
2. **원문의 숫자와 단위를 절대 변환하지 말고 그대로 추출하세요**
   - "1,250억원" → value: 1250, unit: "억원"
   - "1조 2,500억원" → value: 1.25, unit: "조원"
   - "55.0%%" → value: 55.0, unit: "%%"
3. **기간 표준화:** "2024년 4분기" → "2024-Q4", "2024년 연간" → "2024-연간"

**출력 형식 (JSON):**
[
  {"company": "회사명", "period": "기간", "metric": "지표명", "value": 1250, "unit": "단위", "context": "원문 전체 문장"}
]

JSON 배열만 출력하고, 다른 설명은 추가하지 마세요.`, role, text)
}

// BuildCompanyPrompt extracts just the company name from a document sample
func BuildCompanyPrompt(text string) string {
	return fmt.Sprintf("다음 텍스트에서 회사명만 추출하세요. 회사명만 반환하고 다른 설명은 하지 마세요:\n\n%s",
		truncateRunes(text, companySampleRunes))
}

// BuildTranslationPrompt translates an English transcript to Korean with
// financial-term precision
func BuildTranslationPrompt(text string) string {
	return fmt.Sprintf(`다음 어닝콜 원문을 한국어로 번역해주세요.

**번역 규칙:**
1. **재무 용어를 정확하게 번역**: billion → 억 (10억 아님), million → 백만, trillion → 조
2. **숫자 단위 변환**:
   - 15 billion dollars → 150억 달러 (1500억 아님!)
   - 1.5 million → 150만
   - 2.3 trillion → 2조 3000억
3. **퍼센트, 회사명, 고유명사는 그대로 유지**
4. **문맥과 뉘앙스를 자연스럽게 번역**
5. **"approximately", "nearly", "about" → "약", "거의" 등으로 번역**

원문:
<text>
%s
</text>

한국어 번역만 반환하세요 (설명이나 주석 없이):`, text)
}

// BuildCorrectionPrompt asks for one corrected full-summary text, combining
// numeric corrections and the high-severity issue subset. The oracle answers
// with {"corrected_dss": "..."}.
func BuildCorrectionPrompt(originalDSS, ecText string, corrections []model.NumericCorrection, issues []model.ValidationOutcome) string {
	correctionsSummary := formatCorrections(corrections, 10)
	issuesSummary := formatIssues(issues, 5)

	return fmt.Sprintf(`당신은 IR 자료 검수 전문가입니다.

아래 DSS 요약본에서 발견된 오류를 수정해주세요.

**원본 DSS:**
<original_dss>
%s
</original_dss>

**어닝콜 원문 (참고용):**
<earning_call>
%s
</earning_call>

**발견된 숫자 오류:**
%s

**발견된 해석 문제 (중요도 높음):**
%s

---

수정된 DSS를 다음 형식으로 생성해주세요:

{
  "corrected_dss": "수정된 DSS 텍스트"
}

**수정 원칙:**
- 숫자 오류를 정확하게 수정
- 중요한 해석 문제(과장, 축소, 확대해석, 조건 무시 등)를 수정
- 원본 문장 구조를 최대한 유지하되, 필요시 명확하게 개선
- 어닝콜 원문에 충실하게 작성

JSON만 반환하세요.`,
		truncateRunes(originalDSS, correctionDSSRunes), truncateRunes(ecText, correctionECRunes),
		correctionsSummary, issuesSummary)
}

func formatCorrections(corrections []model.NumericCorrection, limit int) string {
	if len(corrections) == 0 {
		return "없음"
	}
	var b strings.Builder
	for i, c := range corrections {
		if i >= limit {
			break
		}
		fmt.Fprintf(&b, "- %s (%s): %g %s → %g %s (차이: %.1f%%)\n",
			c.Metric, c.Period, c.DSSValue, c.Unit, c.EarningCallValue, c.Unit, c.DifferencePct)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatIssues(issues []model.ValidationOutcome, limit int) string {
	if len(issues) == 0 {
		return "없음"
	}
	var b strings.Builder
	for i, issue := range issues {
		if i >= limit {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n  → %s\n", issue.IssueType, issue.Statement, issue.Recommendation)
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateRunes clamps s to at most n runes without splitting a UTF-8
// sequence
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
