package registry

import (
	"sort"
	"strconv"
	"strings"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/prompt"
	"github.com/valpere/transeval/internal/translator"
)

// Configuration keys recognized by the factory.
const (
	KeySourceLang   = "source_lang"
	KeyTargetLang   = "target_lang"
	KeyModelName    = "model_name"
	KeyPromptType   = "prompt_type"
	KeyCustomPrompt = "custom_prompt_directive"
	KeyTemperature  = "temperature"
	KeyMaxTokens    = "max_tokens"
	KeyDevice       = "device"
	KeyMaxLength    = "max_length"
	KeyNumBeams     = "num_beams"
)

// Defaults applied before caller options.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 512
	DefaultMaxLength   = 512
	DefaultNumBeams    = 4
)

var (
	llmKeys     = []string{KeySourceLang, KeyTargetLang, KeyModelName, KeyPromptType, KeyCustomPrompt, KeyTemperature, KeyMaxTokens}
	directKeys  = []string{KeySourceLang, KeyTargetLang}
	seq2seqKeys = []string{KeySourceLang, KeyTargetLang, KeyDevice, KeyMaxLength, KeyNumBeams}
)

// Options is the configuration passed to a constructor.
type Options struct {
	SourceLang   string
	TargetLang   string
	ModelName    string
	PromptType   string
	CustomPrompt string
	Temperature  float64
	MaxTokens    int
	Device       string
	MaxLength    int
	NumBeams     int

	set map[string]bool
}

func defaultOptions() Options {
	return Options{
		PromptType:  prompt.Default,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Device:      translator.DeviceCPU,
		MaxLength:   DefaultMaxLength,
		NumBeams:    DefaultNumBeams,
		set:         map[string]bool{},
	}
}

// IsSet reports whether the caller supplied key.
func (o Options) IsSet(key string) bool {
	return o.set[key]
}

// Keys returns the keys the caller supplied, sorted.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.set))
	for k := range o.set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Option func(*Options)

func (o *Options) mark(key string) {
	if o.set == nil {
		o.set = map[string]bool{}
	}
	o.set[key] = true
}

func WithSourceLang(code string) Option {
	return func(o *Options) { o.SourceLang = code; o.mark(KeySourceLang) }
}

func WithTargetLang(code string) Option {
	return func(o *Options) { o.TargetLang = code; o.mark(KeyTargetLang) }
}

func WithModelName(name string) Option {
	return func(o *Options) { o.ModelName = name; o.mark(KeyModelName) }
}

func WithPromptType(code string) Option {
	return func(o *Options) { o.PromptType = code; o.mark(KeyPromptType) }
}

func WithCustomPrompt(directive string) Option {
	return func(o *Options) { o.CustomPrompt = directive; o.mark(KeyCustomPrompt) }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t; o.mark(KeyTemperature) }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n; o.mark(KeyMaxTokens) }
}

func WithDevice(device string) Option {
	return func(o *Options) { o.Device = device; o.mark(KeyDevice) }
}

func WithMaxLength(n int) Option {
	return func(o *Options) { o.MaxLength = n; o.mark(KeyMaxLength) }
}

func WithNumBeams(n int) Option {
	return func(o *Options) { o.NumBeams = n; o.mark(KeyNumBeams) }
}

// AllKeys lists every recognized configuration key.
func AllKeys() []string {
	return []string{
		KeySourceLang, KeyTargetLang, KeyModelName, KeyPromptType, KeyCustomPrompt,
		KeyTemperature, KeyMaxTokens, KeyDevice, KeyMaxLength, KeyNumBeams,
	}
}

// ParseOptions converts key=value pairs into options. Unknown keys and
// malformed numbers fail with ErrValidation.
func ParseOptions(kv map[string]string) ([]Option, error) {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]Option, 0, len(kv))
	for _, key := range keys {
		value := strings.TrimSpace(kv[key])
		k := strings.ToLower(strings.TrimSpace(key))
		switch k {
		case KeySourceLang:
			opts = append(opts, WithSourceLang(value))
		case KeyTargetLang:
			opts = append(opts, WithTargetLang(value))
		case KeyModelName:
			opts = append(opts, WithModelName(value))
		case KeyPromptType:
			opts = append(opts, WithPromptType(value))
		case KeyCustomPrompt, "custom_prompt":
			opts = append(opts, WithCustomPrompt(value))
		case KeyTemperature:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, internal.Validationf("%s must be a number, got '%s'", KeyTemperature, value)
			}
			opts = append(opts, WithTemperature(f))
		case KeyMaxTokens, KeyMaxLength, KeyNumBeams:
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, internal.Validationf("%s must be an integer, got '%s'", k, value)
			}
			switch k {
			case KeyMaxTokens:
				opts = append(opts, WithMaxTokens(n))
			case KeyMaxLength:
				opts = append(opts, WithMaxLength(n))
			default:
				opts = append(opts, WithNumBeams(n))
			}
		case KeyDevice:
			opts = append(opts, WithDevice(value))
		default:
			return nil, internal.Validationf("unknown option '%s'; recognized options: [%s]", key, strings.Join(AllKeys(), ", "))
		}
	}
	return opts, nil
}

// ParsePairs splits "key=value" strings into a map.
func ParsePairs(pairs []string) (map[string]string, error) {
	kv := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, internal.Validationf("option '%s' must have the form key=value", p)
		}
		kv[strings.TrimSpace(k)] = v
	}
	return kv, nil
}
