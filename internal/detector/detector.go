// Package detector maps free text to a supported language code.
package detector

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/validator"
)

// minLetters is the number of letters below which detection is inconclusive.
const minLetters = 6

// Engine is the raw detection capability. ok is false when the engine cannot
// name a language with enough confidence.
type Engine interface {
	DetectISO(text string) (code string, ok bool)
}

var (
	linguaOnce     sync.Once
	linguaDetector lingua.LanguageDetector
)

func getLingua() lingua.LanguageDetector {
	linguaOnce.Do(func() {
		linguaDetector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithMinimumRelativeDistance(0.25).
			Build()
	})
	return linguaDetector
}

// LinguaEngine detects languages with lingua-go. The underlying detector is
// built once per process.
type LinguaEngine struct{}

func (LinguaEngine) DetectISO(text string) (string, bool) {
	sample := strings.TrimSpace(text)
	letters := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minLetters {
		return "", false
	}

	lang, ok := getLingua().DetectLanguageOf(sample)
	if !ok {
		return "", false
	}
	code := strings.ToLower(lang.IsoCode639_1().String())
	if len(code) != 2 {
		return "", false
	}
	return code, true
}

type Detector struct {
	engine    Engine
	supported validator.LanguageSet
}

type Option func(*Detector)

// WithEngine replaces the lingua engine.
func WithEngine(e Engine) Option {
	return func(d *Detector) {
		d.engine = e
	}
}

func New(supported validator.LanguageSet, opts ...Option) *Detector {
	d := &Detector{engine: LinguaEngine{}, supported: supported}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the language code of text. Empty input and detected but
// unsupported languages fail with ErrValidation; an inconclusive engine result
// fails with ErrDetection.
func (d *Detector) Detect(text string) (string, error) {
	if err := validator.ValidateText(text); err != nil {
		return "", err
	}
	code, ok := d.engine.DetectISO(text)
	if !ok || code == "" {
		return "", internal.Detectionf("could not detect the language of the text")
	}
	code = strings.ToLower(code)
	if !d.supported.Contains(code) {
		return "", internal.Validationf("detected language '%s' is not supported; supported languages: %s", code, d.supported)
	}
	return code, nil
}

// Supported returns the language set the detector accepts.
func (d *Detector) Supported() validator.LanguageSet {
	return d.supported
}
