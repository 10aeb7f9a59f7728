// Package metrics implements corpus-level MT metrics used to score
// translations against references.
package metrics

import (
	"regexp"
	"strings"

	"github.com/valpere/transeval/internal"
)

// Metric scores predictions against one or more references per prediction.
type Metric interface {
	Name() string
	Compute(predictions []string, references [][]string) (float64, error)
}

// Default returns BLEU and METEOR.
func Default() []Metric {
	return []Metric{NewBLEU(), NewMETEOR()}
}

var tokenRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+|[^\s\p{L}\p{M}\p{N}_]`)

// tokenize splits text into words and single punctuation marks.
func tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

func checkCorpus(name string, predictions []string, references [][]string) error {
	if len(predictions) == 0 {
		return internal.Validationf("%s: no predictions to score", name)
	}
	if len(predictions) != len(references) {
		return internal.Validationf("%s: predictions length (%d) does not match references length (%d)",
			name, len(predictions), len(references))
	}
	for i, refs := range references {
		if len(refs) == 0 {
			return internal.Validationf("%s: prediction %d has no reference", name, i)
		}
	}
	return nil
}

func lowerAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}
