// Package report turns evaluation scores into tables and writes them as CSV,
// Markdown or HTML.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/valpere/transeval/internal"
)

// Row is one model's rounded scores.
type Row struct {
	Model  string
	Scores internal.Scores
}

// Table is a model x metric score table. Metrics are sorted by name and rows
// keep the order they were built in.
type Table struct {
	Metrics []string
	Rows    []Row
}

// Round4 rounds v to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// FormatScore renders a score with exactly four decimals.
func FormatScore(v float64) string {
	return strconv.FormatFloat(Round4(v), 'f', 4, 64)
}

// NewTable builds a table from per-model results. When models is empty every
// model is included in name order; otherwise rows follow the requested order
// and names without results are returned as missing.
func NewTable(results map[string]internal.Scores, models ...string) (Table, []string) {
	if len(models) == 0 {
		for name := range results {
			models = append(models, name)
		}
		sort.Strings(models)
	}

	var (
		t       Table
		missing []string
		seen    = make(map[string]bool)
		metrics = make(map[string]bool)
	)
	for _, name := range models {
		if seen[name] {
			continue
		}
		seen[name] = true

		scores, ok := results[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		row := Row{Model: name, Scores: make(internal.Scores, len(scores))}
		for metric, v := range scores {
			row.Scores[metric] = Round4(v)
			metrics[metric] = true
		}
		t.Rows = append(t.Rows, row)
	}

	for m := range metrics {
		t.Metrics = append(t.Metrics, m)
	}
	sort.Strings(t.Metrics)
	return t, missing
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Cells returns the table as string records, header first. Missing scores are
// empty cells.
func (t Table) Cells() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string{"model"}, t.Metrics...))
	for _, row := range t.Rows {
		rec := make([]string, 0, len(t.Metrics)+1)
		rec = append(rec, row.Model)
		for _, m := range t.Metrics {
			if v, ok := row.Scores[m]; ok {
				rec = append(rec, FormatScore(v))
			} else {
				rec = append(rec, "")
			}
		}
		out = append(out, rec)
	}
	return out
}

// Render returns an aligned plain-text rendering for console output.
func Render(t Table) string {
	cells := t.Cells()
	widths := make([]int, len(cells[0]))
	for _, rec := range cells {
		for i, c := range rec {
			widths[i] = max(widths[i], len(c))
		}
	}

	var b strings.Builder
	for _, rec := range cells {
		for i, c := range rec {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == 0 {
				fmt.Fprintf(&b, "%-*s", widths[i], c)
			} else {
				fmt.Fprintf(&b, "%*s", widths[i], c)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Sink writes a table in one output format.
type Sink interface {
	Write(w io.Writer, t Table) error
}

// SinkFor picks a sink from the file extension of path. Markdown and HTML
// are recognised; every other path, with or without an extension, gets CSV.
func SinkFor(path string) Sink {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return MarkdownSink{}
	case ".html", ".htm":
		return HTMLSink{Title: "Translation evaluation report"}
	default:
		return CSVSink{}
	}
}

// WriteFile writes t to path using the sink matching its extension.
func WriteFile(path string, t Table) error {
	sink := SinkFor(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := sink.Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
