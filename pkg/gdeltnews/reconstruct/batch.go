package reconstruct

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iandreafc/gdeltnews/internal/fetch"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/fragment"
)

// DirOptions controls a ProcessDir run.
type DirOptions struct {
	InputDir  string
	OutputDir string
	Filter    fragment.Filter
	DeleteGz  bool
}

// DirStats reports what a ProcessDir run did.
type DirStats struct {
	Files    int // compressed ngrams files found
	Articles int // article rows written across all outputs
	Empty    int // header-only outputs removed
	Failed   int // files skipped because of errors
}

// ProcessDir reconstructs articles from every compressed ngrams file in
// a directory, writing one article CSV per input file. Each input is
// decompressed next to the original, processed, and the decompressed
// copy removed again. Failing files are skipped.
func (r *Reconstructor) ProcessDir(ctx context.Context, opts DirOptions) (DirStats, error) {
	info, err := os.Stat(opts.InputDir)
	if err != nil || !info.IsDir() {
		return DirStats{}, fmt.Errorf("input directory %s does not exist or is not a directory", opts.InputDir)
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return DirStats{}, err
	}

	gzFiles, err := findGzFiles(opts.InputDir)
	if err != nil {
		return DirStats{}, err
	}

	stats := DirStats{Files: len(gzFiles)}
	if len(gzFiles) == 0 {
		r.log.Info("no ngrams files found", "dir", opts.InputDir)
		return stats, nil
	}
	r.log.Info("reconstructing articles",
		"files", len(gzFiles),
		"input", opts.InputDir,
		"output", opts.OutputDir)

	for _, gzPath := range gzFiles {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := r.processFile(ctx, gzPath, opts, &stats); err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			r.log.Warn("skipping file", "file", filepath.Base(gzPath), "error", err)
			stats.Failed++
		}
	}

	r.log.Info("reconstruction finished",
		"files", stats.Files,
		"articles", stats.Articles,
		"empty", stats.Empty,
		"failed", stats.Failed)
	return stats, nil
}

func (r *Reconstructor) processFile(ctx context.Context, gzPath string, opts DirOptions, stats *DirStats) error {
	jsonPath, err := fetch.Decompress(gzPath)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	csvPath := filepath.Join(opts.OutputDir, articleCSVName(jsonPath))
	defer func() {
		if err := os.Remove(jsonPath); err != nil && !os.IsNotExist(err) {
			r.log.Warn("could not remove temporary JSON file", "path", jsonPath, "error", err)
		}
		if _, err := os.Stat(csvPath); err == nil && !articles.HasData(csvPath) {
			if err := os.Remove(csvPath); err != nil {
				r.log.Warn("could not remove empty output", "path", csvPath, "error", err)
			} else {
				stats.Empty++
				r.log.Info("removed empty output", "file", filepath.Base(csvPath))
			}
		}
		if opts.DeleteGz {
			if err := os.Remove(gzPath); err != nil && !os.IsNotExist(err) {
				r.log.Warn("could not remove ngrams file", "path", gzPath, "error", err)
			}
		}
	}()

	records, err := fragment.LoadFile(jsonPath, opts.Filter, r.log)
	if err != nil {
		return fmt.Errorf("load fragments: %w", err)
	}

	arts, err := r.Run(ctx, GroupByURL(records))
	if err != nil {
		return err
	}
	if err := articles.WriteFile(csvPath, arts); err != nil {
		return fmt.Errorf("write articles: %w", err)
	}

	stats.Articles += len(arts)
	r.log.Info("reconstructed file", "file", filepath.Base(gzPath), "articles", len(arts))
	return nil
}

func findGzFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fetch.FileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// articleCSVName maps 20250316000100.webngrams.json to
// 20250316000100.webngrams.articles.csv.
func articleCSVName(jsonPath string) string {
	base := filepath.Base(jsonPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + ".articles.csv"
}
