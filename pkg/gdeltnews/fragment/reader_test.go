package fragment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iandreafc/gdeltnews/internal/logger"
)

func TestLoad(t *testing.T) {
	input := strings.Join([]string{
		`{"url":"https://a.example/1","date":"2025-03-16T00:01:00Z","lang":"en","type":"news","pos":1,"pre":"a","ngram":"b","post":"c"}`,
		``,
		`not json at all`,
		`{"url":"https://a.example/2","date":"2025-03-16T00:01:00Z","lang":"it","type":"news","pos":2,"pre":"d","ngram":"e","post":"f"}`,
		`{"url": 12345}`,
	}, "\n")

	recs, err := Load(strings.NewReader(input), "test", Filter{}, logger.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].URL != "https://a.example/1" || recs[1].URL != "https://a.example/2" {
		t.Errorf("unexpected records: %+v", recs)
	}
}

func TestLoadAppliesFilter(t *testing.T) {
	input := strings.Join([]string{
		`{"url":"https://news.example/en","lang":"en","pos":1,"ngram":"x"}`,
		`{"url":"https://news.example/it","lang":"it","pos":2,"ngram":"y"}`,
		`{"url":"https://blog.example/it","lang":"it","pos":3,"ngram":"z"}`,
	}, "\n")

	recs, err := Load(strings.NewReader(input), "test", Filter{
		Language:    "it",
		URLContains: []string{"news.example"},
	}, logger.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].URL != "https://news.example/it" {
		t.Errorf("kept %q, want the Italian news record", recs[0].URL)
	}
}

func TestLoadEmptyInput(t *testing.T) {
	recs, err := Load(strings.NewReader(""), "test", Filter{}, logger.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minute.webngrams.json")
	content := `{"url":"https://a.example/1","date":"2025-03-16T00:01:00Z","lang":"en","pos":5,"pre":"p","ngram":"n","post":"q"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	recs, err := LoadFile(path, Filter{}, logger.Nop())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Pos != 5 {
		t.Errorf("Pos = %d, want 5", recs[0].Pos)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"), Filter{}, logger.Nop())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
