package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/detector"
	"github.com/valpere/transeval/internal/postprocess"
	"github.com/valpere/transeval/internal/prompt"
	"github.com/valpere/transeval/internal/validator"
)

// LLMLanguages are the codes generative backends are asked to translate.
var LLMLanguages = []string{
	"ar", "bg", "cs", "da", "de", "el", "en", "es", "et", "fi", "fr", "he",
	"hi", "hu", "id", "it", "ja", "ko", "lt", "lv", "nl", "no", "pl", "pt",
	"ro", "ru", "sk", "sv", "th", "tr", "uk", "vi", "zh",
}

// Models available per generative backend.
var (
	OllamaModels = []string{"llama3.2:3b", "llama3.1:8b", "gemma3:4b", "phi3:3.8b", "mistral:7b"}
	GPTModels    = []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"}
	GeminiModels = []string{"gemini-1.5-flash", "gemini-2.0-flash", "gemini-1.5-pro"}

	OpenRouterModels = []string{
		"google/gemini-2.0-flash-exp:free",
		"qwen/qwen2.5-72b-instruct:free",
		"mistralai/mistral-nemo:free",
		"meta-llama/llama-3.1-8b-instruct:free",
	}
)

// LLMConfig configures an LLM translator.
type LLMConfig struct {
	Name            string
	Model           string
	AvailableModels []string
	Supported       []string

	SourceLang   string
	TargetLang   string
	PromptType   string
	CustomPrompt string
	Temperature  float64
	MaxTokens    int
	Stop         []string

	Detector *detector.Detector
}

// LLM translates by prompting a generative model.
//
// Construction passes through model name validation, model acquisition and
// prompt resolution; a failure at any step returns no translator.
type LLM struct {
	core
	generator backend.Generator
	model     string
	style     prompt.Style
	directive string
	opts      backend.GenerateOptions
}

var _ Translator = (*LLM)(nil)

func NewLLM(gen backend.Generator, cfg LLMConfig) (*LLM, error) {
	name := cfg.Name
	if name == "" && gen != nil {
		name = gen.Name()
	}

	supported := cfg.Supported
	if len(supported) == 0 {
		supported = LLMLanguages
	}
	c, err := newCore(name, cfg.SourceLang, cfg.TargetLang, validator.NewLanguageSet(supported...), cfg.Detector)
	if err != nil {
		return nil, err
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return nil, internal.Validationf("temperature must be between 0 and 1, got %g", cfg.Temperature)
	}
	if cfg.MaxTokens <= 0 {
		return nil, internal.Validationf("max_tokens must be greater than 0, got %d", cfg.MaxTokens)
	}

	if err := validateModelName(cfg.Model, cfg.AvailableModels); err != nil {
		return nil, err
	}

	if gen == nil {
		return nil, internal.Validationf("cannot acquire model '%s': no generator configured", cfg.Model)
	}

	promptType := cfg.PromptType
	if promptType == "" {
		promptType = prompt.Default
	}
	style, err := prompt.Resolve(promptType)
	if err != nil {
		return nil, err
	}
	if style.Code == prompt.Custom && strings.TrimSpace(cfg.CustomPrompt) == "" {
		return nil, internal.Validationf("prompt type '%s' requires a custom prompt directive", prompt.Custom)
	}

	return &LLM{
		core:      c,
		generator: gen,
		model:     cfg.Model,
		style:     style,
		directive: cfg.CustomPrompt,
		opts: backend.GenerateOptions{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Stop:        cfg.Stop,
		},
	}, nil
}

func validateModelName(model string, available []string) error {
	for _, m := range available {
		if m == model {
			return nil
		}
	}
	return internal.Validationf("model '%s' is not available; available models are: [%s]", model, strings.Join(available, ", "))
}

// Model returns the model the translator prompts.
func (l *LLM) Model() string {
	return l.model
}

// PromptStyle returns the resolved prompt style.
func (l *LLM) PromptStyle() prompt.Style {
	return l.style
}

// memoryScope keys remembered output by model and prompt style. A custom
// style is keyed by its directive.
func (l *LLM) memoryScope() (string, string) {
	if l.style.Code == prompt.Custom {
		return l.model, prompt.Custom + ":" + l.directive
	}
	return l.model, l.style.Code
}

// RenderPrompt builds the prompt for text translated from source.
func (l *LLM) RenderPrompt(text, source string) (string, error) {
	data := prompt.Data{
		Text:           text,
		TargetLanguage: validator.LanguageName(l.target),
		Directive:      l.directive,
	}
	if source != "" {
		data.SourceLanguage = validator.LanguageName(source)
	}
	return prompt.Render(l.style, data)
}

func (l *LLM) call(ctx context.Context, text, source string) (string, error) {
	p, err := l.RenderPrompt(text, source)
	if err != nil {
		return "", err
	}
	raw, err := l.generator.Generate(ctx, l.model, p, l.opts)
	if err != nil {
		return "", err
	}
	out := postprocess.Clean(raw)
	if out == "" {
		return "", fmt.Errorf("model %s returned an empty translation", l.model)
	}
	return out, nil
}

func (l *LLM) Translate(ctx context.Context, text string) (string, error) {
	return l.translate(ctx, text, l.call)
}

func (l *LLM) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	return l.translateBatch(ctx, texts, l.call)
}
