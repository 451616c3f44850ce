// Package assemble merges overlapping sentence fragments into article text.
//
// GDELT Web NGrams delivers an article as many short snippets, each carrying
// an approximate position in the original document. The merger here rebuilds
// the running text greedily from word overlaps between snippets; it needs no
// prior knowledge of which snippets overlap or by how much.
package assemble

import (
	"slices"
	"strings"
)

// positionTolerance bounds how far a fragment's position may drift from the
// anchor fragment before a merge direction is ruled out.
const positionTolerance = 10

// merger holds the state of one greedy reconstruction pass.
type merger struct {
	words  [][]string // fragment word lists, parallel to pos
	pos    []int
	gated  bool // position gating active
	anchor int  // first fragment's position
	result []string
	used   []bool
	left   int // unused fragment count
}

// Merge reconstructs a single text from overlapping sentence fragments.
// Fragments are consumed greedily: each round attaches the unused fragment
// with the longest word overlap against the current result, appending or
// prepending as the overlap dictates. Positions, when non-nil, must be
// parallel to sentences; they gate the merge direction so that a fragment
// well past the first one cannot be prepended, and vice versa. Fragments
// that never overlap the result are dropped.
func Merge(sentences []string, positions []int) string {
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) == 1 {
		return sentences[0]
	}

	m := newMerger(sentences, positions)
	for m.left > 0 {
		if !m.step() {
			break
		}
	}
	return strings.Join(m.result, " ")
}

func newMerger(sentences []string, positions []int) *merger {
	m := &merger{
		words: make([][]string, len(sentences)),
		pos:   positions,
		gated: positions != nil,
		used:  make([]bool, len(sentences)),
		left:  len(sentences) - 1,
	}
	for i, s := range sentences {
		m.words[i] = strings.Fields(s)
	}
	if m.gated {
		m.anchor = positions[0]
	}
	m.result = m.words[0]
	m.used[0] = true
	return m
}

// step merges the best-overlapping unused fragment into the result. It
// reports false when no unused fragment overlaps at all.
func (m *merger) step() bool {
	bestOverlap := 0
	bestFragment := -1
	bestPrepend := false

	for i := range m.words {
		if m.used[i] {
			continue
		}
		words := m.words[i]
		limit := min(len(m.result), len(words))

		// Append: the fragment continues the result, so its position must
		// not precede the anchor by more than the tolerance.
		if !m.gated || m.pos[i]+positionTolerance >= m.anchor {
			if k := overlap(m.result, words, limit); k > bestOverlap {
				bestOverlap = k
				bestFragment = i
				bestPrepend = false
			}
		}

		// Prepend: the fragment precedes the result, so its position must
		// not exceed the anchor by more than the tolerance.
		if !m.gated || m.pos[i]-positionTolerance <= m.anchor {
			if k := overlap(words, m.result, limit); k > bestOverlap {
				bestOverlap = k
				bestFragment = i
				bestPrepend = true
			}
		}
	}

	if bestFragment == -1 {
		return false
	}

	if bestPrepend {
		keep := m.words[bestFragment]
		keep = keep[:len(keep)-bestOverlap]
		merged := make([]string, 0, len(keep)+len(m.result))
		merged = append(merged, keep...)
		merged = append(merged, m.result...)
		m.result = merged
	} else {
		m.result = append(m.result, m.words[bestFragment][bestOverlap:]...)
	}
	m.used[bestFragment] = true
	m.left--
	return true
}

// overlap returns the longest k ≤ limit such that the last k words of left
// equal the first k words of right, or 0 when no run matches. Comparison is
// exact and case-sensitive.
func overlap(left, right []string, limit int) int {
	for k := limit; k > 0; k-- {
		if slices.Equal(left[len(left)-k:], right[:k]) {
			return k
		}
	}
	return 0
}
