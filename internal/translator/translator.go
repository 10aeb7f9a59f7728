// Package translator defines the translation contract shared by every backend
// family and the variants implementing it.
package translator

import (
	"context"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/detector"
	"github.com/valpere/transeval/internal/validator"
)

// Translator translates text between a fixed language pair. SourceLang is
// empty when the source language is detected per text.
type Translator interface {
	Name() string
	SourceLang() string
	TargetLang() string
	Translate(ctx context.Context, text string) (string, error)
	TranslateBatch(ctx context.Context, texts []string) ([]string, error)
}

// LanguageDetector is implemented by translators that can detect the
// language of their input.
type LanguageDetector interface {
	DetectLanguage(text string) (string, error)
}

// backendFunc performs one backend call for an already validated text and a
// resolved source language.
type backendFunc func(ctx context.Context, text, source string) (string, error)

// core carries the language pair and the behavior common to every variant.
type core struct {
	name      string
	source    string
	target    string
	supported validator.LanguageSet
	detector  *detector.Detector

	// lenientDetection passes an empty source to the backend when detection
	// is inconclusive, for services that detect the language themselves.
	lenientDetection bool
}

func newCore(name, source, target string, supported validator.LanguageSet, det *detector.Detector) (core, error) {
	if err := validator.ValidatePair(source, target, supported); err != nil {
		return core{}, err
	}
	if det == nil {
		det = detector.New(supported)
	}
	return core{
		name:      name,
		source:    normalize(source),
		target:    normalize(target),
		supported: supported,
		detector:  det,
	}, nil
}

func (c *core) Name() string       { return c.name }
func (c *core) SourceLang() string { return c.source }
func (c *core) TargetLang() string { return c.target }

// SupportedLanguages returns the codes accepted by the translator.
func (c *core) SupportedLanguages() []string {
	return c.supported.Codes()
}

func (c *core) DetectLanguage(text string) (string, error) {
	return c.detector.Detect(text)
}

func (c *core) resolveSource(text string) (string, error) {
	if c.source != "" {
		return c.source, nil
	}
	code, err := c.detector.Detect(text)
	if err != nil {
		if c.lenientDetection && isDetection(err) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (c *core) translate(ctx context.Context, text string, fn backendFunc) (string, error) {
	if err := validator.ValidateText(text); err != nil {
		return "", err
	}
	source, err := c.resolveSource(text)
	if err != nil {
		return "", err
	}
	if source == c.target {
		return text, nil
	}

	out, err := fn(ctx, text, source)
	if err != nil {
		if internal.IsTaxonomy(err) {
			return "", err
		}
		return "", internal.NewTranslationError(c.name, err)
	}
	return out, nil
}

func (c *core) translateBatch(ctx context.Context, texts []string, fn backendFunc) ([]string, error) {
	if err := validator.ValidateTexts(texts); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		translated, err := c.translate(ctx, text, fn)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}
	return out, nil
}
