package assemble

import "strings"

// TrimBoundaryOverlap removes a block of text that appears both at the very
// start and at the very end of s, which the merger can produce when a late
// merge re-attaches the opening of the article. The longest prefix that also
// terminates the text is dropped; interior repetition is left alone.
func TrimBoundaryOverlap(s string) string {
	if len(s) < 2 {
		return s
	}
	// An overlap longer than half the text would overlap itself.
	for i := len(s) / 2; i > 0; i-- {
		if s[:i] == s[len(s)-i:] {
			return s[i:]
		}
	}
	return s
}

// SanitizeText prepares article text for pipe-delimited output: field and
// quote delimiters become spaces, and every whitespace run collapses to a
// single space with no leading or trailing remainder.
func SanitizeText(s string) string {
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.ReplaceAll(s, `"`, " ")
	return strings.Join(strings.Fields(s), " ")
}
