package fragment

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iandreafc/gdeltnews/internal/logger"
)

// maxLineBytes caps a single JSONL line. Web NGrams lines stay well under a
// megabyte; the cap only guards against a corrupted download.
const maxLineBytes = 4 * 1024 * 1024

// Filter restricts which records a loader keeps.
type Filter struct {
	// Language keeps only records with this exact language code.
	// Empty accepts every language.
	Language string

	// URLContains keeps records whose URL contains at least one of the
	// given substrings. Empty accepts every URL.
	URLContains []string
}

// Match reports whether a record passes the filter.
func (f Filter) Match(r Record) bool {
	if f.Language != "" && r.Lang != f.Language {
		return false
	}
	if len(f.URLContains) > 0 {
		for _, sub := range f.URLContains {
			if strings.Contains(r.URL, sub) {
				return true
			}
		}
		return false
	}
	return true
}

// Load reads line-delimited JSON records from r, skipping lines that do not
// decode and records rejected by the filter. Malformed lines are logged with
// their line number and do not stop the load. The source name is used in
// diagnostics only.
func Load(r io.Reader, source string, filter Filter, log *logger.Logger) ([]Record, error) {
	if log == nil {
		log = logger.Nop()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Warn("skipping malformed record",
				"source", source, "line", lineNum, "error", err)
			continue
		}

		if !filter.Match(rec) {
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return records, nil
}

// LoadFile loads records from a JSONL file on disk.
func LoadFile(path string, filter Filter, log *logger.Logger) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, path, filter, log)
}
