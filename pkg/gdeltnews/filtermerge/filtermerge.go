// Package filtermerge reduces reconstructed-article files to one filtered,
// deduplicated output file.
//
// A run compiles the boolean query before touching any input, streams every
// article file in the input directory through the filter into a temporary
// file next to the output, then deduplicates by URL keeping the longest
// text per document. Files missing the required columns are skipped with a
// diagnostic; a query that fails to compile aborts the run before anything
// is written.
package filtermerge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/iandreafc/gdeltnews/internal/logger"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/boolquery"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store"
)

// ErrNoInputFiles reports an input directory without any article files.
var ErrNoInputFiles = errors.New("no article files found")

// Options configures a filter/merge run.
type Options struct {
	InputDir    string
	OutputPath  string
	Query       string      // empty keeps every article
	SourceLabel string      // fills empty Source fields
	KeepTemp    bool        // keep the intermediate filtered file
	Store       store.Store // optional sink for surviving articles
	Log         *logger.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Query        string
	FilesScanned int
	FilesSkipped int
	RowsRead     int64
	Matched      int64 // rows that passed the query filter
	Kept         int64 // distinct articles written to the output
	TempPath     string
	OutputPath   string
}

// run carries one execution's compiled query and counters through the
// stages, so a run owns all of its state.
type run struct {
	opts  Options
	query *boolquery.Query
	log   *logger.Logger
	res   Result
}

// Run executes the filter and dedup pipeline and reports what it did.
func Run(ctx context.Context, opts Options) (Result, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	query, err := boolquery.Compile(opts.Query)
	if err != nil {
		return Result{}, err
	}

	r := &run{opts: opts, query: query, log: log}
	r.res.RunID = ulid.Make().String()
	r.res.Query = opts.Query
	r.res.TempPath = opts.OutputPath + ".tmp"
	r.res.OutputPath = opts.OutputPath
	startedAt := time.Now()

	files, err := listArticleFiles(opts.InputDir)
	if err != nil {
		return r.res, err
	}
	if len(files) == 0 {
		return r.res, fmt.Errorf("%w in %s", ErrNoInputFiles, opts.InputDir)
	}

	log.Info("filtering article files",
		"run", r.res.RunID, "files", len(files), "query", opts.Query)
	if err := r.filterToTemp(files); err != nil {
		return r.res, err
	}

	survivors, err := r.dedupToFinal()
	if err != nil {
		return r.res, err
	}
	r.res.Kept = int64(len(survivors))

	if opts.Store != nil {
		if err := r.persist(ctx, survivors, startedAt); err != nil {
			return r.res, err
		}
	}

	if !opts.KeepTemp {
		if err := os.Remove(r.res.TempPath); err != nil {
			log.Warn("could not remove temporary file", "path", r.res.TempPath, "error", err)
		}
	}

	log.Info("filter run finished",
		"run", r.res.RunID, "matched", r.res.Matched, "kept", r.res.Kept)
	return r.res, nil
}

// listArticleFiles returns the CSV files in dir, sorted by name.
func listArticleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// filterToTemp streams every input file through the query filter into the
// temporary four-column file.
func (r *run) filterToTemp(files []string) error {
	f, err := os.Create(r.res.TempPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", r.res.TempPath, err)
	}
	w := articles.NewWriter(f, true)
	if err := w.WriteHeader(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", r.res.TempPath, err)
	}

	for _, path := range files {
		if err := r.filterFile(path, w); err != nil {
			r.log.Warn("skipping file", "path", path, "error", err)
			r.res.FilesSkipped++
			continue
		}
		r.res.FilesScanned++
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", r.res.TempPath, err)
	}
	return f.Close()
}

// filterFile copies the matching rows of one article file to the temp
// writer. A missing header or unreadable file fails the whole file.
func (r *run) filterFile(path string, w *articles.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rd, err := articles.NewReader(f)
	if err != nil {
		return err
	}

	for {
		a, err := rd.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		r.res.RowsRead++

		if !r.query.Matches(a.Text) {
			continue
		}
		if a.Source == "" {
			a.Source = r.opts.SourceLabel
		}
		if err := w.Write(a); err != nil {
			r.log.Warn("skipping row", "url", a.URL, "error", err)
			continue
		}
		r.res.Matched++
	}
}

// dedupToFinal reduces the temp file to one row per URL, keeping the row
// with the longest text and emitting URLs in first-seen order.
func (r *run) dedupToFinal() ([]articles.Article, error) {
	f, err := os.Open(r.res.TempPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.res.TempPath, err)
	}
	rd, err := articles.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", r.res.TempPath, err)
	}

	var order []string
	best := make(map[string]articles.Article)
	for {
		a, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("read %s: %w", r.res.TempPath, err)
		}
		prev, seen := best[a.URL]
		if !seen {
			order = append(order, a.URL)
			best[a.URL] = a
			continue
		}
		if utf8.RuneCountInString(a.Text) > utf8.RuneCountInString(prev.Text) {
			best[a.URL] = a
		}
	}
	f.Close()

	out, err := os.Create(r.opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.opts.OutputPath, err)
	}
	w := articles.NewWriter(out, true)
	if err := w.WriteHeader(); err != nil {
		out.Close()
		return nil, fmt.Errorf("write %s: %w", r.opts.OutputPath, err)
	}

	survivors := make([]articles.Article, 0, len(order))
	for _, url := range order {
		a := best[url]
		if err := w.Write(a); err != nil {
			out.Close()
			return nil, fmt.Errorf("write %s: %w", r.opts.OutputPath, err)
		}
		survivors = append(survivors, a)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return nil, fmt.Errorf("write %s: %w", r.opts.OutputPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, err
	}
	return survivors, nil
}

// persist mirrors the surviving articles into the store and records the
// run itself.
func (r *run) persist(ctx context.Context, survivors []articles.Article, startedAt time.Time) error {
	for _, a := range survivors {
		if err := r.opts.Store.UpsertArticle(ctx, a); err != nil {
			return fmt.Errorf("store article %s: %w", a.URL, err)
		}
	}
	rec := store.Run{
		ID:        r.res.RunID,
		Query:     r.opts.Query,
		StartedAt: startedAt,
		Matched:   r.res.Matched,
		Kept:      r.res.Kept,
	}
	if err := r.opts.Store.RecordRun(ctx, rec); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
