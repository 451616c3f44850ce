// Package fragment models GDELT Web NGrams records and turns them into
// cleaned sentences ready for assembly.
package fragment

import "strings"

// Record is one raw Web NGrams entry, one per input line. The three text
// parts surround the sampled n-gram in original document order.
type Record struct {
	URL   string `json:"url"`
	Date  string `json:"date"`
	Lang  string `json:"lang"`
	Type  string `json:"type"`
	Pos   int    `json:"pos"`
	Pre   string `json:"pre"`
	Ngram string `json:"ngram"`
	Post  string `json:"post"`
}

// Fragment is a Record whose text parts have been merged into a single
// sentence. Derived, never persisted on its own.
type Fragment struct {
	URL      string
	Date     string
	Lang     string
	Type     string
	Pos      int
	Sentence string
}

// leadingArtifactMaxPos bounds the "start of document" region in which the
// upstream extractor is known to glue tail content onto the opening sentence.
const leadingArtifactMaxPos = 20

// artifactSeparator marks the seam between the glued-on tail and the real
// document opening.
const artifactSeparator = " / "

// Normalize merges the three text parts of a record into one sentence.
//
// Records positioned near the document start sometimes carry content from the
// document's end, erroneously concatenated before the real opening and
// separated from it by " / ". When a record's position is below 20 and the
// sentence contains that separator, everything up to and including the first
// separator is dropped. A document that legitimately opens with " / " loses
// its lead-in here; the trigger cannot tell the two cases apart, so the
// correction applies silently.
func Normalize(r Record) Fragment {
	sentence := r.Pre + " " + r.Ngram + " " + r.Post

	if r.Pos < leadingArtifactMaxPos {
		if idx := strings.Index(sentence, artifactSeparator); idx >= 0 {
			sentence = sentence[idx+len(artifactSeparator):]
		}
	}

	return Fragment{
		URL:      r.URL,
		Date:     r.Date,
		Lang:     r.Lang,
		Type:     r.Type,
		Pos:      r.Pos,
		Sentence: sentence,
	}
}
