// Package report renders aligned run summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Report is an ordered list of titled sections holding key/value rows.
// Keys are padded to the widest key of their section, measured in
// display cells so wide runes stay aligned.
type Report struct {
	sections []*section
}

type section struct {
	title string
	rows  []row
}

type row struct {
	key   string
	value string
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// Section starts a new titled section. Rows added afterwards belong to
// it.
func (r *Report) Section(title string) {
	r.sections = append(r.sections, &section{title: title})
}

// Add appends a key/value row to the current section.
func (r *Report) Add(key string, value any) {
	if len(r.sections) == 0 {
		r.Section("")
	}
	sec := r.sections[len(r.sections)-1]
	sec.rows = append(sec.rows, row{key: key, value: fmt.Sprint(value)})
}

// Render writes the report to w.
func (r *Report) Render(w io.Writer, useColors bool) {
	title := func(s string) string { return s }
	if useColors {
		sprint := color.New(color.FgWhite, color.Bold).SprintFunc()
		title = func(s string) string { return sprint(s) }
	}

	for i, sec := range r.sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if sec.title != "" {
			fmt.Fprintln(w, title(sec.title))
			fmt.Fprintln(w, strings.Repeat("─", runewidth.StringWidth(sec.title)))
		}

		width := 0
		for _, row := range sec.rows {
			if kw := runewidth.StringWidth(row.key); kw > width {
				width = kw
			}
		}
		for _, row := range sec.rows {
			pad := strings.Repeat(" ", width-runewidth.StringWidth(row.key))
			fmt.Fprintf(w, "  %s%s  %s\n", row.key, pad, row.value)
		}
	}
}
