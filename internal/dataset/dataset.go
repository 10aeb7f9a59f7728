// Package dataset loads parallel corpora used for evaluation.
//
// Supported layouts:
//   - .csv / .tsv with a header row naming language codes, e.g. "de,en"
//   - .jsonl with one {"translation": {"de": "...", "en": "..."}} object per line
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/valpere/transeval/internal"
)

// Corpus is a list of aligned source sentences and reference translations.
type Corpus struct {
	Pair       internal.LanguagePair
	Sources    []string
	References []string
}

func (c Corpus) Len() int { return len(c.Sources) }

// Loader returns the corpus for a language pair.
type Loader interface {
	Load(pair internal.LanguagePair) (Corpus, error)
}

// DirLoader looks up "<src>-<tgt>" files in a directory, trying .jsonl, .csv
// and .tsv in that order.
type DirLoader struct {
	Dir   string
	Limit int
}

func (d DirLoader) Load(pair internal.LanguagePair) (Corpus, error) {
	for _, ext := range []string{".jsonl", ".csv", ".tsv"} {
		path := filepath.Join(d.Dir, pair.String()+ext)
		if _, err := os.Stat(path); err == nil {
			return Load(path, pair.Source, pair.Target, d.Limit)
		}
	}
	return Corpus{}, internal.NotFoundf("no dataset for %s in %s", pair, d.Dir)
}

// Load reads up to limit sentence pairs from path. A limit <= 0 reads all.
// Rows with an empty source or reference are skipped.
func Load(path, source, target string, limit int) (Corpus, error) {
	source, target = strings.ToLower(source), strings.ToLower(target)
	if source == "" || target == "" {
		return Corpus{}, internal.Validationf("dataset source and target languages are required")
	}

	f, err := os.Open(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	c := Corpus{Pair: internal.LanguagePair{Source: source, Target: target}}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		err = readDelimited(f, ',', &c, limit)
	case ".tsv":
		err = readDelimited(f, '\t', &c, limit)
	case ".jsonl":
		err = readJSONL(f, &c, limit)
	default:
		return Corpus{}, internal.Validationf("unsupported dataset format %q; use .csv, .tsv or .jsonl", ext)
	}
	if err != nil {
		return Corpus{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if c.Len() == 0 {
		return Corpus{}, internal.Validationf("dataset %s has no %s sentence pairs", path, c.Pair)
	}
	return c, nil
}

func (c *Corpus) add(src, ref string, limit int) bool {
	src, ref = strings.TrimSpace(src), strings.TrimSpace(ref)
	if src != "" && ref != "" {
		c.Sources = append(c.Sources, src)
		c.References = append(c.References, ref)
	}
	return limit > 0 && c.Len() >= limit
}

func readDelimited(r io.Reader, comma rune, c *Corpus, limit int) error {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	if comma == '\t' {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	srcCol, tgtCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case c.Pair.Source:
			srcCol = i
		case c.Pair.Target:
			tgtCol = i
		}
	}
	if srcCol < 0 || tgtCol < 0 {
		return internal.Validationf("header %v must contain columns '%s' and '%s'", header, c.Pair.Source, c.Pair.Target)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if srcCol >= len(rec) || tgtCol >= len(rec) {
			continue
		}
		if c.add(rec[srcCol], rec[tgtCol], limit) {
			return nil
		}
	}
}

type jsonlRecord struct {
	Translation map[string]string `json:"translation"`
}

func readJSONL(r io.Reader, c *Corpus, limit int) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return internal.Validationf("line %d: %v", line, err)
		}
		if c.add(rec.Translation[c.Pair.Source], rec.Translation[c.Pair.Target], limit) {
			return nil
		}
	}
	return sc.Err()
}
