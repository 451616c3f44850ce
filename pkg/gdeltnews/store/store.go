// Package store persists reconstructed articles and filter-run records.
package store

import (
	"context"
	"time"

	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
)

// Store is the interface for persisting articles and filter runs.
type Store interface {
	Close() error

	// UpsertArticle inserts an article or, when the URL already exists,
	// replaces the stored row only if the new text is strictly longer.
	// Length is counted in characters, not bytes.
	UpsertArticle(ctx context.Context, a articles.Article) error
	GetArticleByURL(ctx context.Context, url string) (articles.Article, bool, error)
	// AllArticles returns every stored article in first-insertion order.
	AllArticles(ctx context.Context) ([]articles.Article, error)
	CountArticles(ctx context.Context) (int64, error)

	RecordRun(ctx context.Context, r Run) error
	// ListRuns returns the most recent runs, newest first. A limit of zero
	// or less selects a default of 20.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run describes one filter/merge execution over a set of article files.
type Run struct {
	ID        string // ULID assigned by the caller
	Query     string
	StartedAt time.Time
	Matched   int64 // rows that passed the query filter
	Kept      int64 // distinct articles after deduplication
}
