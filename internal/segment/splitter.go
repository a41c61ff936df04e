package segment

import (
	"strings"
	"unicode"

	"github.com/irlens/dsscheck/internal/model"
)

// Splitter breaks a section's text into ordered sentence units.
//
// Lines contribute units independently; a conventional leading "##" content
// marker is stripped first. Within a line, a period only terminates a unit
// when it is not preceded by a digit and is followed by whitespace or the end
// of the line, so decimal and grouped numerals like "1.5조원" or "3,450.2"
// never split.
type Splitter struct{}

// NewSplitter creates a splitter
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Split returns the section's sentence units with indices assigned 1..N
// over the whole section, in input order.
func (s *Splitter) Split(text string) []model.SentenceUnit {
	var units []model.SentenceUnit

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "##") {
			line = strings.TrimSpace(line[2:])
		}

		for _, frag := range splitLine(line) {
			frag = strings.TrimSpace(frag)
			if !hasContent(frag) {
				continue
			}
			if !strings.HasSuffix(frag, ".") {
				frag += "."
			}
			units = append(units, model.SentenceUnit{
				Index: len(units) + 1,
				Text:  frag,
			})
		}
	}

	return units
}

// splitLine splits one line at terminal periods. The period and any
// whitespace after it are consumed; fragments come back bare.
func splitLine(line string) []string {
	runes := []rune(line)
	var frags []string
	var cur []rune

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '.' && i > 0 && !isASCIIDigit(runes[i-1]) &&
			(i == len(runes)-1 || unicode.IsSpace(runes[i+1])) {
			frags = append(frags, string(cur))
			cur = cur[:0]
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		frags = append(frags, string(cur))
	}

	return frags
}

// hasContent reports whether the fragment holds anything beyond
// punctuation and whitespace
func hasContent(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
