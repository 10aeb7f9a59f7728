package translator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/validator"
)

// Memory is a persistent translation memory. Entries are scoped by
// internal.MemoryKey so one translator never serves another's output.
type Memory interface {
	Recall(ctx context.Context, key internal.MemoryKey, text string) (string, bool, error)
	RecallSimilar(ctx context.Context, key internal.MemoryKey, text string, threshold float64) (string, bool, error)
	Remember(ctx context.Context, key internal.MemoryKey, text, translation string) error
}

// scoped is implemented by variants whose output depends on more than the
// translator name.
type scoped interface {
	memoryScope() (model, style string)
}

// autoSource is the memory key used for translators with a detected source.
const autoSource = "auto"

// Cached consults a translation memory before delegating to the wrapped
// translator and stores every fresh translation. Memory failures are logged
// and never fail a translation.
type Cached struct {
	inner     Translator
	memory    Memory
	key       internal.MemoryKey
	threshold float64
	logger    zerolog.Logger
}

var _ Translator = (*Cached)(nil)

type CachedOption func(*Cached)

// WithFuzzyThreshold enables fuzzy lookups at the given similarity (0-1).
func WithFuzzyThreshold(threshold float64) CachedOption {
	return func(c *Cached) {
		c.threshold = threshold
	}
}

func WithCacheLogger(logger zerolog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = logger
	}
}

func NewCached(inner Translator, memory Memory, opts ...CachedOption) *Cached {
	c := &Cached{inner: inner, memory: memory, key: MemoryKeyOf(inner), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MemoryKeyOf returns the memory scope of t: its name and pair, plus model
// and prompt style for the variants that have them. An unset source is keyed
// as "auto".
func MemoryKeyOf(t Translator) internal.MemoryKey {
	key := internal.MemoryKey{
		Translator: t.Name(),
		SourceLang: t.SourceLang(),
		TargetLang: t.TargetLang(),
	}
	if key.SourceLang == "" {
		key.SourceLang = autoSource
	}
	if s, ok := t.(scoped); ok {
		key.Model, key.Style = s.memoryScope()
	}
	return key
}

// Key returns the memory scope used for every lookup.
func (c *Cached) Key() internal.MemoryKey {
	return c.key
}

func (c *Cached) memoryScope() (string, string) {
	return c.key.Model, c.key.Style
}

func (c *Cached) Name() string       { return c.inner.Name() }
func (c *Cached) SourceLang() string { return c.inner.SourceLang() }
func (c *Cached) TargetLang() string { return c.inner.TargetLang() }

func (c *Cached) lookup(ctx context.Context, text string) (string, bool) {
	if out, ok, err := c.memory.Recall(ctx, c.key, text); err != nil {
		c.logger.Warn().Err(err).Msg("translation memory lookup failed")
	} else if ok {
		return out, true
	}
	if c.threshold <= 0 {
		return "", false
	}
	out, ok, err := c.memory.RecallSimilar(ctx, c.key, text, c.threshold)
	if err != nil {
		c.logger.Warn().Err(err).Msg("similar translation memory lookup failed")
		return "", false
	}
	return out, ok
}

func (c *Cached) Translate(ctx context.Context, text string) (string, error) {
	if err := validator.ValidateText(text); err != nil {
		return "", err
	}
	if out, ok := c.lookup(ctx, text); ok {
		c.logger.Debug().Str("translator", c.key.Translator).Str("model", c.key.Model).Msg("translation memory hit")
		return out, nil
	}
	out, err := c.inner.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if err := c.memory.Remember(ctx, c.key, text, out); err != nil {
		c.logger.Warn().Err(err).Msg("failed to save translation to memory")
	}
	return out, nil
}

// TranslateBatch validates the whole batch before consulting the memory for
// any item.
func (c *Cached) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	if err := validator.ValidateTexts(texts); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		translated, err := c.Translate(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}
	return out, nil
}

// DetectLanguage delegates to the wrapped translator when it can detect.
func (c *Cached) DetectLanguage(text string) (string, error) {
	if d, ok := c.inner.(LanguageDetector); ok {
		return d.DetectLanguage(text)
	}
	return "", errNoDetector(c.Name())
}
