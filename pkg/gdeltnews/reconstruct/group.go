package reconstruct

import (
	"sort"

	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/fragment"
)

// Document holds the normalized fragments of one URL, sorted by position.
type Document struct {
	URL       string
	Fragments []fragment.Fragment
}

// GroupByURL normalizes records and groups them by URL. Groups appear in
// the order their URL was first seen in the input, which later fixes the
// output order of the reconstruction run. Within a group, fragments are
// sorted by position; fragments sharing a position keep their input order.
func GroupByURL(records []fragment.Record) []Document {
	index := make(map[string]int)
	var docs []Document
	for _, rec := range records {
		i, ok := index[rec.URL]
		if !ok {
			i = len(docs)
			index[rec.URL] = i
			docs = append(docs, Document{URL: rec.URL})
		}
		docs[i].Fragments = append(docs[i].Fragments, fragment.Normalize(rec))
	}
	for i := range docs {
		frags := docs[i].Fragments
		sort.SliceStable(frags, func(a, b int) bool {
			return frags[a].Pos < frags[b].Pos
		})
	}
	return docs
}
