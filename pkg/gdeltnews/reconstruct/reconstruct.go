// Package reconstruct turns grouped ngram fragments back into articles.
//
// Documents are independent work units, so reconstruction fans them out
// across a fixed-size worker pool and collects the finished articles. The
// output order is always the order in which each URL first appeared in the
// input, independent of worker scheduling.
package reconstruct

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iandreafc/gdeltnews/internal/logger"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/assemble"
)

// Reconstructor runs document assembly over a worker pool.
type Reconstructor struct {
	workers int
	log     *logger.Logger

	// assembleFn stands in for AssembleDocument in tests.
	assembleFn func(Document) articles.Article
}

// New returns a Reconstructor with the given pool size. A size of zero or
// less selects one worker per CPU.
func New(workers int, log *logger.Logger) *Reconstructor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reconstructor{workers: workers, log: log}
}

// Run reconstructs every document and returns the articles in first-seen
// URL order. A document whose assembly fails is dropped with a diagnostic;
// the run continues. Run fails only when ctx is cancelled.
func (r *Reconstructor) Run(ctx context.Context, docs []Document) ([]articles.Article, error) {
	r.log.Debug("reconstructing documents", "documents", len(docs), "workers", r.workers)

	results := make([]articles.Article, len(docs))
	done := make([]bool, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			art, err := r.assembleOne(doc)
			if err != nil {
				r.log.Warn("dropping document", "url", doc.URL, "error", err)
				return nil
			}
			results[i] = art
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]articles.Article, 0, len(docs))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	return out, nil
}

// assembleOne isolates a single document's assembly so that a panic on
// pathological input drops that document instead of the whole run.
func (r *Reconstructor) assembleOne(doc Document) (art articles.Article, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("assembly failed: %v", p)
		}
	}()
	fn := r.assembleFn
	if fn == nil {
		fn = AssembleDocument
	}
	return fn(doc), nil
}

// AssembleDocument merges one document's fragments into a finished article:
// greedy word-overlap merge, boundary-overlap trim, then text sanitation.
// The article date is the day portion of the first fragment's timestamp.
func AssembleDocument(doc Document) articles.Article {
	sentences := make([]string, len(doc.Fragments))
	positions := make([]int, len(doc.Fragments))
	for i, f := range doc.Fragments {
		sentences[i] = f.Sentence
		positions[i] = f.Pos
	}

	text := assemble.Merge(sentences, positions)
	text = assemble.TrimBoundaryOverlap(text)
	text = assemble.SanitizeText(text)

	return articles.Article{
		Text: text,
		Date: publicationDate(doc),
		URL:  doc.URL,
	}
}

func publicationDate(doc Document) string {
	if len(doc.Fragments) == 0 {
		return ""
	}
	d := doc.Fragments[0].Date
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}
