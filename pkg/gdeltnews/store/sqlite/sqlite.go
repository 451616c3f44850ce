// Package sqlite implements the article store on an embedded SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/articles"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode enabled, creating the
// schema when needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT UNIQUE NOT NULL,
	text TEXT NOT NULL,
	date TEXT,
	source TEXT
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	query TEXT,
	started_at TEXT NOT NULL,
	matched INTEGER NOT NULL DEFAULT 0,
	kept INTEGER NOT NULL DEFAULT 0
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertArticle inserts an article, replacing an existing row for the same
// URL only when the new text is strictly longer. SQLite's length() counts
// characters for text values, matching the dedup rule.
func (s *sqliteStore) UpsertArticle(ctx context.Context, a articles.Article) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO articles (url, text, date, source)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	text=excluded.text,
	date=excluded.date,
	source=excluded.source
WHERE length(excluded.text) > length(articles.text);
`, a.URL, a.Text, a.Date, a.Source)
	return err
}

// GetArticleByURL retrieves an article by URL.
func (s *sqliteStore) GetArticleByURL(ctx context.Context, url string) (articles.Article, bool, error) {
	var a articles.Article
	err := s.db.QueryRowContext(ctx, `
SELECT url, text, date, source FROM articles WHERE url = ?;
`, url).Scan(&a.URL, &a.Text, &a.Date, &a.Source)
	if err == sql.ErrNoRows {
		return articles.Article{}, false, nil
	}
	if err != nil {
		return articles.Article{}, false, err
	}
	return a, true, nil
}

// AllArticles returns every stored article in first-insertion order.
func (s *sqliteStore) AllArticles(ctx context.Context) ([]articles.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT url, text, date, source FROM articles ORDER BY id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []articles.Article
	for rows.Next() {
		var a articles.Article
		if err := rows.Scan(&a.URL, &a.Text, &a.Date, &a.Source); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountArticles returns the number of stored articles.
func (s *sqliteStore) CountArticles(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// RecordRun stores one filter-run record.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, query, started_at, matched, kept)
VALUES (?, ?, ?, ?, ?);
`, r.ID, r.Query, r.StartedAt.UTC().Format(time.RFC3339), r.Matched, r.Kept)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, query, started_at, matched, kept
FROM runs
ORDER BY started_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			r       store.Run
			started string
		)
		if err := rows.Scan(&r.ID, &r.Query, &started, &r.Matched, &r.Kept); err != nil {
			return nil, err
		}
		if parsed, perr := time.Parse(time.RFC3339, started); perr == nil {
			r.StartedAt = parsed
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
