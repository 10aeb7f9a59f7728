package report

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// CSVSink writes a header of "model" followed by metric names.
type CSVSink struct{}

func (CSVSink) Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Cells()); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

// MarkdownSink writes a GitHub-flavoured pipe table.
type MarkdownSink struct{}

func (MarkdownSink) Write(w io.Writer, t Table) error {
	if _, err := io.WriteString(w, markdownTable(t)); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

func markdownTable(t Table) string {
	cells := t.Cells()
	var b strings.Builder
	for i, rec := range cells {
		b.WriteString("| " + strings.Join(escapePipes(rec), " | ") + " |\n")
		if i == 0 {
			b.WriteString("|---")
			for range rec[1:] {
				b.WriteString("|---:")
			}
			b.WriteString("|\n")
		}
	}
	return b.String()
}

func escapePipes(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// HTMLSink renders the Markdown table to a standalone HTML page.
type HTMLSink struct {
	Title string
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

func (s HTMLSink) Write(w io.Writer, t Table) error {
	err := page.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: s.Title,
		Body:  template.HTML(toHTML([]byte(markdownTable(t)))),
	})
	if err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	return nil
}

func toHTML(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	}
	renderer := html.NewRenderer(opts)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Attributes)
	return string(markdown.Render(p.Parse(md), renderer))
}
