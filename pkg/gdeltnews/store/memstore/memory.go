// Package memstore provides an in-memory store.Store for tests and
// store-less pipeline runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu    sync.RWMutex
	order []string // URLs in first-insertion order
	byURL map[string]articles.Article
	runs  []store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{byURL: make(map[string]articles.Article)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertArticle inserts an article, keyed by URL, keeping the longer text
// when the URL is already present.
func (s *Store) UpsertArticle(ctx context.Context, a articles.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.URL == "" {
		return nil
	}

	prev, ok := s.byURL[a.URL]
	if !ok {
		s.order = append(s.order, a.URL)
		s.byURL[a.URL] = a
		return nil
	}
	if utf8.RuneCountInString(a.Text) > utf8.RuneCountInString(prev.Text) {
		s.byURL[a.URL] = a
	}
	return nil
}

// GetArticleByURL returns an article by URL.
func (s *Store) GetArticleByURL(ctx context.Context, url string) (articles.Article, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byURL[url]
	return a, ok, nil
}

// AllArticles returns every stored article in first-insertion order.
func (s *Store) AllArticles(ctx context.Context) ([]articles.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]articles.Article, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, s.byURL[url])
	}
	return out, nil
}

// CountArticles returns the number of stored articles.
func (s *Store) CountArticles(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byURL)), nil
}

// RecordRun stores one filter-run record.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
