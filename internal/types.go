package internal

import (
	"fmt"
	"strings"
	"time"
)

// LanguagePair is a source/target pair of language codes.
type LanguagePair struct {
	Source string `json:"source" mapstructure:"source"`
	Target string `json:"target" mapstructure:"target"`
}

// ParseLanguagePair parses "de-en" style pairs.
func ParseLanguagePair(raw string) (LanguagePair, error) {
	src, tgt, ok := strings.Cut(strings.TrimSpace(raw), "-")
	src, tgt = strings.ToLower(strings.TrimSpace(src)), strings.ToLower(strings.TrimSpace(tgt))
	if !ok || src == "" || tgt == "" {
		return LanguagePair{}, Validationf("language pair %q must look like 'de-en'", raw)
	}
	return LanguagePair{Source: src, Target: tgt}, nil
}

func (p LanguagePair) String() string {
	return fmt.Sprintf("%s-%s", p.Source, p.Target)
}

// EvaluationRun identifies one Evaluate call persisted to the history store.
type EvaluationRun struct {
	ID        string    `json:"id"`
	Models    []string  `json:"models"`
	Samples   int       `json:"samples"`
	Timestamp time.Time `json:"timestamp"`
}

// Scores maps a metric name to its corpus score for one model.
type Scores map[string]float64

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MemoryKey scopes a translation memory entry to the translator configuration
// that produced it. Model and Style are empty for variants without them.
type MemoryKey struct {
	Translator string `json:"translator"`
	Model      string `json:"model,omitempty"`
	Style      string `json:"style,omitempty"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Pair returns the key's language pair.
func (k MemoryKey) Pair() LanguagePair {
	return LanguagePair{Source: k.SourceLang, Target: k.TargetLang}
}
