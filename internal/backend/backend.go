// Package backend holds the adapters that talk to translation and generation
// services. Adapters return plain errors; the translator layer classifies them.
package backend

import "context"

// GenerateOptions are the sampling parameters passed to generative backends.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	Stop        []string
}

// Generator produces a completion for a prompt with the named model.
type Generator interface {
	Name() string
	Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error)
}

// TextTranslator is a machine translation API that translates text directly.
// An empty source asks the service to detect the language.
type TextTranslator interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// GenerationOptions control sequence-to-sequence decoding.
type GenerationOptions struct {
	MaxLength int
	NumBeams  int
	// ForcedBOS is the model-specific target language code forced as the
	// first generated token. Empty for models that take no forced token.
	ForcedBOS string
	Device    string
}

// Seq2SeqModel is a loaded encoder-decoder model.
type Seq2SeqModel interface {
	ModelID() string
	Tokenize(ctx context.Context, text, srcLang string) ([]int, error)
	Generate(ctx context.Context, inputIDs []int, opts GenerationOptions) ([]int, error)
	Decode(ctx context.Context, outputIDs []int) (string, error)
}
