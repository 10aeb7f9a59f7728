package sweep

import (
	"sort"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/registry"
	"github.com/valpere/transeval/internal/translator"
)

// ModelFactory builds a translator for one language pair.
type ModelFactory func(pair internal.LanguagePair) (translator.Translator, error)

// ModelRegistry maps short model keys to factories.
type ModelRegistry map[string]ModelFactory

// Keys returns the registered keys in sorted order.
func (m ModelRegistry) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultModels is the evaluation order used when a plan names no models.
var DefaultModels = []string{
	"mistral", "m2m100", "marian", "t5", "nllb", "mbart50",
	"llama3.1", "llama3.2", "gemma", "phi3",
}

// StandardModels binds the sweep keys to translators from reg.
func StandardModels(reg *registry.Registry) ModelRegistry {
	bind := func(name string, opts ...registry.Option) ModelFactory {
		return func(pair internal.LanguagePair) (translator.Translator, error) {
			all := append([]registry.Option{
				registry.WithSourceLang(pair.Source),
				registry.WithTargetLang(pair.Target),
			}, opts...)
			return reg.Create(name, all...)
		}
	}

	return ModelRegistry{
		"nllb":     bind("nllb"),
		"m2m100":   bind("m2m100"),
		"mbart50":  bind("mbart"),
		"marian":   bind("marian"),
		"t5":       bind("t5"),
		"llama3.2": bind("ollama", registry.WithModelName("llama3.2:3b")),
		"llama3.1": bind("ollama", registry.WithModelName("llama3.1:8b")),
		"gemma":    bind("ollama", registry.WithModelName("gemma3:4b")),
		"phi3":     bind("ollama", registry.WithModelName("phi3:3.8b")),
		"mistral":  bind("ollama", registry.WithModelName("mistral:7b")),
	}
}
