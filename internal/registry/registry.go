// Package registry maps translator names to constructors and builds
// translators from functional options.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/translator"
)

// Constructor builds one translator variant. Accepts lists the option keys
// the variant understands.
type Constructor struct {
	Accepts []string
	New     func(Options) (translator.Translator, error)
}

// Registry is a name to constructor table.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Constructor
}

// NewEmpty returns a registry without entries.
func NewEmpty() *Registry {
	return &Registry{entries: make(map[string]Constructor)}
}

// Register adds or replaces the constructor for name.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = c
}

// Unregister removes name and reports whether it was present. Other entries
// are left untouched.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	delete(r.entries, name)
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Accepts returns the option keys accepted by name.
func (r *Registry) Accepts(name string) ([]string, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), c.Accepts...), nil
}

func (r *Registry) lookup(name string) (Constructor, error) {
	r.mu.RLock()
	c, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return Constructor{}, internal.UnknownKeyf("unknown translator '%s'; available translators: [%s]",
			name, strings.Join(r.Names(), ", "))
	}
	return c, nil
}

// Create builds the translator registered under name.
func (r *Registry) Create(name string, opts ...Option) (translator.Translator, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	accepted := make(map[string]bool, len(c.Accepts))
	for _, k := range c.Accepts {
		accepted[k] = true
	}
	for _, k := range o.Keys() {
		if !accepted[k] {
			return nil, internal.Validationf("option '%s' is not accepted by translator '%s'; accepted options: [%s]",
				k, name, strings.Join(c.Accepts, ", "))
		}
	}
	return c.New(o)
}

// Dependencies are the backend clients the standard table is built on.
// A nil client makes its entries fail at construction.
type Dependencies struct {
	Ollama     backend.Generator
	OpenAI     backend.Generator
	OpenRouter backend.Generator
	Gemini     backend.Generator
	Google     backend.TextTranslator
	MyMemory   backend.TextTranslator
	Seq2Seq    translator.ModelLoader
}

// DaemonBackends are the entries that need a locally running server.
var DaemonBackends = []string{"ollama", "mbart", "m2m100", "nllb", "marian", "t5"}

// New returns the standard table.
func New(deps Dependencies) *Registry {
	r := NewEmpty()

	r.Register("ollama", llmConstructor("ollama", deps.Ollama, translator.OllamaModels))
	r.Register("gpt", llmConstructor("gpt", deps.OpenAI, translator.GPTModels))
	r.Register("gemini", llmConstructor("gemini", deps.Gemini, translator.GeminiModels))
	r.Register("openrouter", llmConstructor("openrouter", deps.OpenRouter, translator.OpenRouterModels))

	r.Register("google", directConstructor(deps.Google, backend.GoogleLanguages, true))
	r.Register("mymemory", directConstructor(deps.MyMemory, backend.MyMemoryLanguages, false))

	for _, spec := range []translator.ModelSpec{
		translator.MBart50, translator.M2M100, translator.NLLB200, translator.Marian, translator.T5,
	} {
		r.Register(spec.Family, seq2seqConstructor(spec, deps.Seq2Seq))
	}
	return r
}

// DisableDaemonBackends removes the entries listed in DaemonBackends.
func (r *Registry) DisableDaemonBackends() {
	for _, name := range DaemonBackends {
		r.Unregister(name)
	}
}

func llmConstructor(name string, gen backend.Generator, models []string) Constructor {
	return Constructor{
		Accepts: llmKeys,
		New: func(o Options) (translator.Translator, error) {
			model := o.ModelName
			if !o.IsSet(KeyModelName) {
				model = models[0]
			}
			return translator.NewLLM(gen, translator.LLMConfig{
				Name:            name,
				Model:           model,
				AvailableModels: models,
				SourceLang:      o.SourceLang,
				TargetLang:      o.TargetLang,
				PromptType:      o.PromptType,
				CustomPrompt:    o.CustomPrompt,
				Temperature:     o.Temperature,
				MaxTokens:       o.MaxTokens,
			})
		},
	}
}

func directConstructor(tr backend.TextTranslator, languages []string, autoDetect bool) Constructor {
	return Constructor{
		Accepts: directKeys,
		New: func(o Options) (translator.Translator, error) {
			if tr == nil {
				return nil, internal.Validationf("translator backend is not configured")
			}
			return translator.NewDirect(tr, translator.DirectConfig{
				SourceLang: o.SourceLang,
				TargetLang: o.TargetLang,
				Supported:  languages,
				AutoDetect: autoDetect,
			})
		},
	}
}

func seq2seqConstructor(spec translator.ModelSpec, load translator.ModelLoader) Constructor {
	return Constructor{
		Accepts: seq2seqKeys,
		New: func(o Options) (translator.Translator, error) {
			if load == nil {
				return nil, internal.Validationf("no model loader configured for %s", spec.Family)
			}
			return translator.NewSeq2Seq(spec, load, translator.Seq2SeqConfig{
				SourceLang: o.SourceLang,
				TargetLang: o.TargetLang,
				Device:     o.Device,
				MaxLength:  o.MaxLength,
				NumBeams:   o.NumBeams,
			})
		},
	}
}
