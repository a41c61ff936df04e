package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/irlens/dsscheck/internal/model"
)

// Lines at or above this length never count as headers, even when
// marker-prefixed. Protects against content lines that happen to start
// with "##".
const headerMaxLen = 100

// Classifier partitions a DSS document into named sections by scanning
// lines in order. Classification is a pure fold over the line sequence:
// step() carries the current section forward and says where each line goes.
type Classifier struct {
	performanceKeywords []string
	performanceSuppress []string
	guidanceKeywords    []string
	qaKeywords          []string
}

// NewClassifier creates a classifier with the standard Korean keyword sets
func NewClassifier() *Classifier {
	return &Classifier{
		performanceKeywords: []string{"실적", "실적발표", "성과", "결과"},
		performanceSuppress: []string{"q&a", "가이던스", "전망"},
		guidanceKeywords:    []string{"가이던스", "전망", "계획", "목표", "가이드"},
		qaKeywords:          []string{"q&a", "q & a", "질의", "응답", "질문"},
	}
}

// assignment is the per-line output of the classification fold
type assignment struct {
	headerCandidate bool              // trimmed line was marker-prefixed and below the length gate
	discard         bool              // header matched a section; the line contributes no content
	section         model.SectionName // section the line's content belongs to (when not discarded)
}

// step is the pure state transition: (current section, line) -> (next
// section, assignment). It holds no state of its own, so concurrent
// classification runs share nothing.
func (c *Classifier) step(current model.SectionName, line string) (model.SectionName, assignment) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "##") && utf8.RuneCountInString(trimmed) < headerMaxLen {
		lower := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(trimmed, "#", "")))
		if name, ok := c.match(lower); ok {
			return name, assignment{headerCandidate: true, discard: true, section: name}
		}
		// Marker-prefixed but no keyword match (or PERFORMANCE suppressed):
		// the line is content, not a header.
		return current, assignment{headerCandidate: true, section: current}
	}

	return current, assignment{section: current}
}

// match tests marker-stripped lowercased text against the three keyword
// sets. PERFORMANCE is checked first and only wins when none of its
// suppressor keywords co-occur; a suppressed PERFORMANCE match falls through
// to no match at all, not to GUIDANCE/QA. The asymmetry is deliberate.
func (c *Classifier) match(lower string) (model.SectionName, bool) {
	if containsAny(lower, c.performanceKeywords) {
		if !containsAny(lower, c.performanceSuppress) {
			return model.SectionPerformance, true
		}
		return "", false
	}
	if containsAny(lower, c.guidanceKeywords) {
		return model.SectionGuidance, true
	}
	if containsAny(lower, c.qaKeywords) {
		return model.SectionQA, true
	}
	return "", false
}

// Classify splits the document text into sections. Every non-empty line
// lands in exactly one section; matched header lines are discarded. When the
// document contains no header at all, classification restarts in fallback
// mode: every non-empty line is keyword-tested directly, without the
// marker/length gate, and the current section persists across lines that
// match nothing.
func (c *Classifier) Classify(text string) []model.Section {
	lines := strings.Split(text, "\n")

	texts := make(map[model.SectionName]*strings.Builder, len(model.SectionOrder))
	for _, name := range model.SectionOrder {
		texts[name] = &strings.Builder{}
	}

	current := model.SectionPerformance
	foundHeader := false

	for _, line := range lines {
		next, a := c.step(current, line)
		current = next
		if a.headerCandidate {
			foundHeader = true
		}
		if a.discard {
			continue
		}
		if strings.TrimSpace(line) != "" {
			texts[a.section].WriteString(line)
			texts[a.section].WriteByte('\n')
		}
	}

	if !foundHeader {
		return c.classifyFallback(lines)
	}

	return collectSections(texts)
}

// classifyFallback reclassifies every non-empty line by keyword density.
// Unlike header mode, matching lines are kept as content in the section
// they select.
func (c *Classifier) classifyFallback(lines []string) []model.Section {
	texts := make(map[model.SectionName]*strings.Builder, len(model.SectionOrder))
	for _, name := range model.SectionOrder {
		texts[name] = &strings.Builder{}
	}

	current := model.SectionPerformance
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if name, ok := c.match(strings.ToLower(line)); ok {
			current = name
		}
		texts[current].WriteString(line)
		texts[current].WriteByte('\n')
	}

	return collectSections(texts)
}

// collectSections emits non-empty sections in canonical order
func collectSections(texts map[model.SectionName]*strings.Builder) []model.Section {
	var sections []model.Section
	for _, name := range model.SectionOrder {
		body := strings.TrimSpace(texts[name].String())
		if body == "" {
			continue
		}
		sections = append(sections, model.Section{Name: name, Text: body})
	}
	return sections
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
