// Package articles defines the reconstructed-article record and its
// pipe-delimited file format.
//
// Article files carry a Text|Date|URL header, optionally extended with a
// Source column, and one article per line. Fields are written without any
// quoting; producers strip the delimiter and quote characters from article
// text beforehand, and the writer rejects fields where reserved characters
// remain. Readers resolve columns by header name, so column order may vary
// between files.
package articles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Article is one reconstructed news document.
type Article struct {
	Text   string
	Date   string // publication day, YYYY-MM-DD
	URL    string
	Source string // optional provenance label
}

// ErrMissingColumns reports a file whose header lacks the required Text and
// URL columns.
var ErrMissingColumns = errors.New("missing required Text and URL columns")

// maxRowBytes bounds a single article row; reconstructed texts can run to
// megabytes for long-form pieces.
const maxRowBytes = 16 * 1024 * 1024

const delimiter = "|"

// reservedChars may not appear in any output field: the delimiter, the
// quote character stripped during sanitation, and line breaks.
const reservedChars = "|\"\r\n"

// Writer emits articles in the pipe-delimited format. Call WriteHeader
// before the first Write and Flush after the last.
type Writer struct {
	bw         *bufio.Writer
	withSource bool
}

// NewWriter returns a Writer targeting w. When withSource is true, rows
// carry a fourth Source column.
func NewWriter(w io.Writer, withSource bool) *Writer {
	return &Writer{bw: bufio.NewWriter(w), withSource: withSource}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	cols := []string{"Text", "Date", "URL"}
	if w.withSource {
		cols = append(cols, "Source")
	}
	_, err := w.bw.WriteString(strings.Join(cols, delimiter) + "\n")
	return err
}

// Write writes one article row. It fails when a field still contains a
// reserved character, since the format has no escaping.
func (w *Writer) Write(a Article) error {
	fields := []string{a.Text, a.Date, a.URL}
	if w.withSource {
		fields = append(fields, a.Source)
	}
	for _, f := range fields {
		if strings.ContainsAny(f, reservedChars) {
			return fmt.Errorf("article %s: field %q contains reserved characters", a.URL, f)
		}
	}
	_, err := w.bw.WriteString(strings.Join(fields, delimiter) + "\n")
	return err
}

// Flush writes any buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// WriteFile writes articles to path in the three-column format, replacing
// any existing file.
func WriteFile(path string, arts []Article) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := NewWriter(f, false)
	if err := w.WriteHeader(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, a := range arts {
		if err := w.Write(a); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Reader reads articles from a pipe-delimited file. Rows too short to hold
// the required columns are skipped; a missing Date or Source column leaves
// the field empty.
type Reader struct {
	scanner *bufio.Scanner
	text    int
	date    int
	url     int
	source  int
}

// NewReader consumes the header row of r and resolves column positions.
// It fails with ErrMissingColumns when the header lacks Text or URL, or
// when the input is empty.
func NewReader(r io.Reader) (*Reader, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxRowBytes)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrMissingColumns
	}

	idx := make(map[string]int)
	for i, name := range strings.Split(s.Text(), delimiter) {
		idx[name] = i
	}
	text, okText := idx["Text"]
	url, okURL := idx["URL"]
	if !okText || !okURL {
		return nil, ErrMissingColumns
	}

	rd := &Reader{scanner: s, text: text, url: url, date: -1, source: -1}
	if i, ok := idx["Date"]; ok {
		rd.date = i
	}
	if i, ok := idx["Source"]; ok {
		rd.source = i
	}
	return rd, nil
}

// Read returns the next article row, or io.EOF after the last one.
func (r *Reader) Read() (Article, error) {
	for r.scanner.Scan() {
		row := strings.Split(r.scanner.Text(), delimiter)
		if len(row) <= max(r.text, r.url) {
			continue
		}
		a := Article{Text: row[r.text], URL: row[r.url]}
		if r.date >= 0 && r.date < len(row) {
			a.Date = row[r.date]
		}
		if r.source >= 0 && r.source < len(row) {
			a.Source = row[r.source]
		}
		return a, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Article{}, err
	}
	return Article{}, io.EOF
}

// ReadAll returns all remaining article rows.
func (r *Reader) ReadAll() ([]Article, error) {
	var out []Article
	for {
		a, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
}

// HasData reports whether the file at path contains at least one article
// row beyond the header. Unreadable or malformed files count as empty.
func HasData(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return false
	}
	_, err = r.Read()
	return err == nil
}
