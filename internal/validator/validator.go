// Package validator checks language codes against a translator's supported
// set and rejects text that cannot be translated.
package validator

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/transeval/internal"
)

// LanguageSet is a sorted, de-duplicated set of lowercase language codes.
type LanguageSet []string

// NewLanguageSet normalizes codes into a LanguageSet.
func NewLanguageSet(codes ...string) LanguageSet {
	seen := make(map[string]struct{}, len(codes))
	set := make(LanguageSet, 0, len(codes))
	for _, c := range codes {
		c = normalize(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		set = append(set, c)
	}
	sort.Strings(set)
	return set
}

// Contains reports whether code is a member of the set.
func (s LanguageSet) Contains(code string) bool {
	code = normalize(code)
	i := sort.SearchStrings(s, code)
	return i < len(s) && s[i] == code
}

// Codes returns a copy of the codes in the set.
func (s LanguageSet) Codes() []string {
	return append([]string(nil), s...)
}

// String renders the set as "[de, en, fr]".
func (s LanguageSet) String() string {
	return "[" + strings.Join(s, ", ") + "]"
}

// ValidateLanguage fails when code is not in supported.
func ValidateLanguage(code string, supported LanguageSet) error {
	if !supported.Contains(code) {
		return internal.Validationf("language '%s' is not supported; supported languages: %s", code, supported)
	}
	return nil
}

// ValidatePair checks a translator's language pair. An empty source means the
// source language is detected per text.
func ValidatePair(source, target string, supported LanguageSet) error {
	if normalize(target) == "" {
		return internal.Validationf("target language is required; supported languages: %s", supported)
	}
	if err := ValidateLanguage(target, supported); err != nil {
		return err
	}
	if source == "" {
		return nil
	}
	if err := ValidateLanguage(source, supported); err != nil {
		return err
	}
	if normalize(source) == normalize(target) {
		return internal.Validationf("source and target languages cannot be the same ('%s')", normalize(target))
	}
	return nil
}

// ValidateText fails on empty or whitespace-only text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return internal.Validationf("text to translate must be a non-empty string")
	}
	return nil
}

// ValidateTexts validates every item of a batch before any of them is used.
func ValidateTexts(texts []string) error {
	for i, text := range texts {
		if err := ValidateText(text); err != nil {
			return internal.Validationf("text to translate must be a non-empty string (batch item %d)", i)
		}
	}
	return nil
}

// LanguageName returns the English name of a language code, or the code itself
// when it is not a known BCP 47 tag.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
