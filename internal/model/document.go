package model

// DocumentRole distinguishes the two inputs of a validation run
type DocumentRole string

const (
	RoleSource  DocumentRole = "earning_call" // Authoritative transcript
	RoleSummary DocumentRole = "dss"          // Summary under validation
)

// Document is an immutable input text
type Document struct {
	Text string       `json:"text"`
	Role DocumentRole `json:"role"`
}

// SectionName identifies one of the three DSS sections.
// The values are the Korean labels used on the wire and in prompts.
type SectionName string

const (
	SectionPerformance SectionName = "실적"
	SectionGuidance    SectionName = "가이던스"
	SectionQA          SectionName = "Q&A"
)

// SectionOrder is the canonical ordering of sections in reports
var SectionOrder = []SectionName{SectionPerformance, SectionGuidance, SectionQA}

// Rank returns the position of the section in canonical order
func (n SectionName) Rank() int {
	for i, name := range SectionOrder {
		if name == n {
			return i
		}
	}
	return len(SectionOrder)
}

// Section is a named partition of the summary document.
// Text is the concatenation, in input order, of the non-empty lines
// assigned to the section.
type Section struct {
	Name SectionName `json:"name"`
	Text string      `json:"text"`
}

// SentenceUnit is the smallest fragment sent for validation.
// Index is 1-based and assigned per section; Text always ends with a period.
type SentenceUnit struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}
