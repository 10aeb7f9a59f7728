package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/valpere/transeval/internal"
)

func sampleResults() map[string]internal.Scores {
	return map[string]internal.Scores{
		"nllb":  {"meteor": 0.612345, "bleu": 0.31415926},
		"llama": {"bleu": 0.27182818, "meteor": 0.55555},
	}
}

func TestNewTable(t *testing.T) {
	tbl, missing := NewTable(sampleResults())
	if len(missing) != 0 {
		t.Fatalf("missing = %v", missing)
	}
	if got := strings.Join(tbl.Metrics, ","); got != "bleu,meteor" {
		t.Errorf("metrics = %s", got)
	}
	if tbl.Rows[0].Model != "llama" || tbl.Rows[1].Model != "nllb" {
		t.Errorf("rows not sorted: %+v", tbl.Rows)
	}
	if got := tbl.Rows[1].Scores["bleu"]; got != 0.3142 {
		t.Errorf("bleu = %v, want 0.3142", got)
	}
}

func TestNewTable_FilterAndMissing(t *testing.T) {
	tbl, missing := NewTable(sampleResults(), "nllb", "ghost", "nllb")
	if len(tbl.Rows) != 1 || tbl.Rows[0].Model != "nllb" {
		t.Fatalf("rows = %+v", tbl.Rows)
	}
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Errorf("missing = %v", missing)
	}
}

func TestFormatScore(t *testing.T) {
	tests := map[float64]string{
		1:          "1.0000",
		0:          "0.0000",
		0.12345678: "0.1235",
		0.99999:    "1.0000",
	}
	for in, want := range tests {
		if got := FormatScore(in); got != want {
			t.Errorf("FormatScore(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestCSVSink(t *testing.T) {
	tbl, _ := NewTable(sampleResults())
	var buf bytes.Buffer
	if err := (CSVSink{}).Write(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "model,bleu,meteor" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "nllb,0.3142,0.6123" {
		t.Errorf("row = %q", lines[2])
	}

	// Written values parse back to the in-memory rounded scores.
	fields := strings.Split(lines[2], ",")
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || v != tbl.Rows[1].Scores["bleu"] {
		t.Errorf("round trip: %v %v", v, err)
	}
}

func TestMarkdownAndHTMLSinks(t *testing.T) {
	tbl, _ := NewTable(sampleResults())

	var md bytes.Buffer
	if err := (MarkdownSink{}).Write(&md, tbl); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(md.String(), "| model | bleu | meteor |\n|---|---:|---:|\n") {
		t.Errorf("markdown = %q", md.String())
	}

	var page bytes.Buffer
	if err := (HTMLSink{Title: "Scores"}).Write(&page, tbl); err != nil {
		t.Fatal(err)
	}
	out := page.String()
	for _, want := range []string{"<title>Scores</title>", "<table>", "<td>nllb</td>", "0.6123"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q:\n%s", want, out)
		}
	}
}

func TestSinkFor(t *testing.T) {
	tests := map[string]Sink{
		"out/report.csv": CSVSink{},
		"report.MD":      MarkdownSink{},
		"report.html":    HTMLSink{Title: "Translation evaluation report"},
		"report.txt":     CSVSink{},
		"report":         CSVSink{},
	}
	for path, want := range tests {
		if got := SinkFor(path); got != want {
			t.Errorf("SinkFor(%s) = %#v, want %#v", path, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	tbl, _ := NewTable(sampleResults())
	out := Render(tbl)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "model") || !strings.Contains(lines[1], "0.2718") {
		t.Errorf("render = %q", out)
	}
}

func TestWriteFileAndLoadDir(t *testing.T) {
	dir := t.TempDir()
	tbl, _ := NewTable(sampleResults())
	if err := WriteFile(filepath.Join(dir, "de-en_report.csv"), tbl); err != nil {
		t.Fatal(err)
	}
	other, _ := NewTable(map[string]internal.Scores{"t5": {"bleu": 0.1}})
	if err := WriteFile(filepath.Join(dir, "en-de_report.csv"), other); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	merged, err := LoadDir(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, r := range merged.Rows {
		names = append(names, r.Model)
	}
	if got := strings.Join(names, ","); got != "de-en/llama,de-en/nllb,en-de/t5" {
		t.Errorf("rows = %s", got)
	}
	if merged.Rows[2].Scores["bleu"] != 0.1 {
		t.Errorf("t5 bleu = %v", merged.Rows[2].Scores["bleu"])
	}
	if _, ok := merged.Rows[2].Scores["meteor"]; ok {
		t.Error("t5 should have no meteor score")
	}
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir(), "")
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
