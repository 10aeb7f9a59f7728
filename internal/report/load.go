package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/valpere/transeval/internal"
)

// DefaultSuffix identifies CSV report files written by the sweep.
const DefaultSuffix = "_report.csv"

// LoadDir merges every CSV report in dir whose name ends in suffix. Rows are
// prefixed with the report id, the file name without suffix, as "id/model".
func LoadDir(dir, suffix string) (Table, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return Table{}, fmt.Errorf("list reports: %w", err)
	}
	if len(files) == 0 {
		return Table{}, internal.NotFoundf("no CSV reports found in %s", dir)
	}
	sort.Strings(files)

	results := make(map[string]internal.Scores)
	var order []string
	for _, file := range files {
		id := strings.TrimSuffix(filepath.Base(file), suffix)
		rows, err := readCSV(file)
		if err != nil {
			return Table{}, err
		}
		for _, row := range rows {
			key := row.Model
			if id != "" {
				key = id + "/" + row.Model
			}
			if _, dup := results[key]; !dup {
				order = append(order, key)
			}
			results[key] = row.Scores
		}
	}

	t, _ := NewTable(results, order...)
	return t, nil
}

func readCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "model" {
		return nil, internal.Validationf("report %s has no 'model' header", path)
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for line, rec := range records[1:] {
		row := Row{Model: rec[0], Scores: make(internal.Scores)}
		for i := 1; i < len(rec) && i < len(header); i++ {
			if rec[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, internal.Validationf("report %s line %d: invalid %s score %q", path, line+2, header[i], rec[i])
			}
			row.Scores[header[i]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
