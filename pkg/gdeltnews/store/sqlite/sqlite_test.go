package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGetArticle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a := articles.Article{
		Text:   "reconstructed article text",
		Date:   "2025-03-16",
		URL:    "https://a.example/1",
		Source: "batch-1",
	}
	if err := s.UpsertArticle(ctx, a); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}

	got, ok, err := s.GetArticleByURL(ctx, a.URL)
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if !ok {
		t.Fatal("article not found after upsert")
	}
	if got != a {
		t.Errorf("got %+v, want %+v", got, a)
	}

	_, ok, err = s.GetArticleByURL(ctx, "https://a.example/absent")
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if ok {
		t.Error("absent URL reported as found")
	}
}

func TestUpsertKeepsLongestText(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	url := "https://a.example/1"

	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "medium length"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}
	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "short"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}

	got, _, err := s.GetArticleByURL(ctx, url)
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if got.Text != "medium length" {
		t.Errorf("shorter upsert replaced stored text: %q", got.Text)
	}

	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "a much longer article text"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}
	got, _, err = s.GetArticleByURL(ctx, url)
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if got.Text != "a much longer article text" {
		t.Errorf("longer upsert did not replace stored text: %q", got.Text)
	}
}

func TestUpsertEqualLengthKeepsFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	url := "https://a.example/1"

	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "first", Date: "2025-03-16"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}
	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "later", Date: "2025-03-17"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}

	got, _, err := s.GetArticleByURL(ctx, url)
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if got.Text != "first" || got.Date != "2025-03-16" {
		t.Errorf("equal-length upsert should keep the first row, got %+v", got)
	}
}

func TestUpsertLengthCountsCharacters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	url := "https://a.example/1"

	// Five characters in ten bytes; six ASCII characters must win.
	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "ééééé"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}
	if err := s.UpsertArticle(ctx, articles.Article{URL: url, Text: "abcdef"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}

	got, _, err := s.GetArticleByURL(ctx, url)
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if got.Text != "abcdef" {
		t.Errorf("length comparison should count characters, got %q", got.Text)
	}
}

func TestAllArticlesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	urls := []string{"https://c.example/1", "https://a.example/1", "https://b.example/1"}
	for _, u := range urls {
		if err := s.UpsertArticle(ctx, articles.Article{URL: u, Text: "t"}); err != nil {
			t.Fatalf("UpsertArticle: %v", err)
		}
	}
	// Re-upserting must not move the row.
	if err := s.UpsertArticle(ctx, articles.Article{URL: urls[0], Text: "much longer text"}); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}

	all, err := s.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d articles, want 3", len(all))
	}
	for i, u := range urls {
		if all[i].URL != u {
			t.Errorf("article %d has URL %s, want %s", i, all[i].URL, u)
		}
	}

	n, err := s.CountArticles(ctx)
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if n != 3 {
		t.Errorf("CountArticles = %d, want 3", n)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	runs := []store.Run{
		{ID: "01HRUN0000000000000000001", Query: "fico", StartedAt: base, Matched: 10, Kept: 7},
		{ID: "01HRUN0000000000000000002", Query: "veneto", StartedAt: base.Add(time.Hour), Matched: 3, Kept: 3},
	}
	for _, r := range runs {
		if err := s.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	got, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	if got[0].ID != runs[1].ID {
		t.Errorf("runs not newest-first: %+v", got)
	}
	if got[0].Matched != 3 || got[0].Kept != 3 {
		t.Errorf("run counters lost: %+v", got[0])
	}
	if !got[0].StartedAt.Equal(runs[1].StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got[0].StartedAt, runs[1].StartedAt)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d runs with limit 1", len(limited))
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "articles.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	a := articles.Article{URL: "https://a.example/1", Text: "persisted text", Date: "2025-03-16"}
	if err := s.UpsertArticle(ctx, a); err != nil {
		t.Fatalf("UpsertArticle: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.GetArticleByURL(ctx, a.URL)
	if err != nil {
		t.Fatalf("GetArticleByURL: %v", err)
	}
	if !ok || got != a {
		t.Errorf("article did not survive reopen: %+v", got)
	}
}
