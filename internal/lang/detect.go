// Package lang detects transcript language and translates English
// transcripts to Korean before validation.
package lang

// sampleRunes bounds how much of the document detection inspects
const sampleRunes = 1000

// Detect returns "en" when the leading sample of the text is predominantly
// ASCII, "ko" otherwise. Korean transcripts are overwhelmingly multi-byte,
// so a crude ratio is enough here.
func Detect(text string) string {
	var ascii, total int
	for _, r := range text {
		if total == sampleRunes {
			break
		}
		total++
		if r < 128 {
			ascii++
		}
	}
	if total == 0 {
		return "ko"
	}
	if float64(ascii)/float64(total) > 0.7 {
		return "en"
	}
	return "ko"
}
