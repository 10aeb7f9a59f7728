package translator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/detector"
	"github.com/valpere/transeval/internal/validator"
)

// Devices accepted by sequence-to-sequence translators.
const (
	DeviceCPU         = "cpu"
	DeviceAccelerator = "accelerator"
)

// ModelSpec describes how a sequence-to-sequence model family expects its
// language codes and inputs.
type ModelSpec struct {
	Family  string
	ModelID string
	// Codes maps ISO 639-1 codes to the model's own language codes.
	Codes map[string]string
	// SourceCodes restricts the source language. Empty means any supported code.
	SourceCodes []string
	// RequiresSource is set for models that cannot work with a detected source.
	RequiresSource bool
	// ForcedBOS sends the target code as the forced first token.
	ForcedBOS bool
	// SourceToken passes the source code to the tokenizer.
	SourceToken bool
	// PairModelID returns the model id for a language pair. Nil means ModelID.
	PairModelID func(source, target string) string
	// TaskPrefix returns text prepended to every input. Nil means none.
	TaskPrefix func(source, target string) string
}

// Languages returns the ISO codes the family supports.
func (s ModelSpec) Languages() []string {
	codes := make([]string, 0, len(s.Codes))
	for c := range s.Codes {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ConvertLanguageCode maps an ISO code to the model's language code.
func (s ModelSpec) ConvertLanguageCode(code string) (string, error) {
	mapped, ok := s.Codes[normalize(code)]
	if !ok {
		return "", internal.Validationf("language code '%s' is not supported by %s", code, s.Family)
	}
	return mapped, nil
}

// ResolveModelID returns the model id to load for a pair.
func (s ModelSpec) ResolveModelID(source, target string) string {
	if s.PairModelID != nil {
		return s.PairModelID(normalize(source), normalize(target))
	}
	return s.ModelID
}

// ModelLoader returns a handle to the model with the given id.
type ModelLoader func(modelID string) (backend.Seq2SeqModel, error)

// Seq2SeqConfig configures a Seq2Seq translator.
type Seq2SeqConfig struct {
	SourceLang string
	TargetLang string
	Device     string
	MaxLength  int
	NumBeams   int
	Detector   *detector.Detector
}

// Seq2Seq translates with a local encoder-decoder model through
// tokenize, generate and decode calls.
type Seq2Seq struct {
	core
	spec  ModelSpec
	model backend.Seq2SeqModel
	cfg   Seq2SeqConfig
}

var _ Translator = (*Seq2Seq)(nil)

func NewSeq2Seq(spec ModelSpec, load ModelLoader, cfg Seq2SeqConfig) (*Seq2Seq, error) {
	if cfg.Device != DeviceCPU && cfg.Device != DeviceAccelerator {
		return nil, internal.Validationf("device must be one of [%s, %s], got '%s'", DeviceCPU, DeviceAccelerator, cfg.Device)
	}
	if cfg.MaxLength <= 0 {
		return nil, internal.Validationf("max_length must be greater than 0, got %d", cfg.MaxLength)
	}
	if cfg.NumBeams <= 0 {
		return nil, internal.Validationf("num_beams must be greater than 0, got %d", cfg.NumBeams)
	}

	c, err := newCore(spec.Family, cfg.SourceLang, cfg.TargetLang, validator.NewLanguageSet(spec.Languages()...), cfg.Detector)
	if err != nil {
		return nil, err
	}
	if spec.RequiresSource && c.source == "" {
		return nil, internal.Validationf("%s requires an explicit source language", spec.Family)
	}
	if c.source != "" {
		if err := spec.checkSource(c.source); err != nil {
			return nil, err
		}
	}

	model, err := load(spec.ResolveModelID(c.source, c.target))
	if err != nil {
		return nil, fmt.Errorf("load %s model: %w", spec.Family, err)
	}
	return &Seq2Seq{core: c, spec: spec, model: model, cfg: cfg}, nil
}

func (s ModelSpec) checkSource(source string) error {
	if len(s.SourceCodes) == 0 {
		return nil
	}
	allowed := validator.NewLanguageSet(s.SourceCodes...)
	if !allowed.Contains(source) {
		return internal.Validationf("%s only translates from %s, got '%s'", s.Family, allowed, source)
	}
	return nil
}

// ModelID returns the id of the loaded model.
func (s *Seq2Seq) ModelID() string {
	return s.model.ModelID()
}

func (s *Seq2Seq) memoryScope() (string, string) {
	return s.model.ModelID(), ""
}

func (s *Seq2Seq) call(ctx context.Context, text, source string) (string, error) {
	if err := s.spec.checkSource(source); err != nil {
		return "", err
	}
	srcCode, err := s.spec.ConvertLanguageCode(source)
	if err != nil {
		return "", err
	}
	tgtCode, err := s.spec.ConvertLanguageCode(s.target)
	if err != nil {
		return "", err
	}

	input := text
	if s.spec.TaskPrefix != nil {
		input = s.spec.TaskPrefix(source, s.target) + text
	}
	tokenSrc := ""
	if s.spec.SourceToken {
		tokenSrc = srcCode
	}
	ids, err := s.model.Tokenize(ctx, input, tokenSrc)
	if err != nil {
		return "", fmt.Errorf("tokenize: %w", err)
	}

	opts := backend.GenerationOptions{
		MaxLength: s.cfg.MaxLength,
		NumBeams:  s.cfg.NumBeams,
		Device:    s.cfg.Device,
	}
	if s.spec.ForcedBOS {
		opts.ForcedBOS = tgtCode
	}
	outIDs, err := s.model.Generate(ctx, ids, opts)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	decoded, err := s.model.Decode(ctx, outIDs)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return strings.TrimSpace(decoded), nil
}

func (s *Seq2Seq) Translate(ctx context.Context, text string) (string, error) {
	return s.translate(ctx, text, s.call)
}

func (s *Seq2Seq) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	return s.translateBatch(ctx, texts, s.call)
}

func isoIdentity(codes ...string) map[string]string {
	m := make(map[string]string, len(codes))
	for _, c := range codes {
		m[c] = c
	}
	return m
}

// MBart50 is facebook/mbart-large-50-many-to-many-mmt.
var MBart50 = ModelSpec{
	Family:  "mbart",
	ModelID: "facebook/mbart-large-50-many-to-many-mmt",
	Codes: map[string]string{
		"ar": "ar_AR", "cs": "cs_CZ", "de": "de_DE", "en": "en_XX", "es": "es_XX",
		"et": "et_EE", "fi": "fi_FI", "fr": "fr_XX", "hi": "hi_IN", "it": "it_IT",
		"ja": "ja_XX", "ko": "ko_KR", "lt": "lt_LT", "lv": "lv_LV", "nl": "nl_XX",
		"pl": "pl_PL", "pt": "pt_XX", "ro": "ro_RO", "ru": "ru_RU", "sv": "sv_SE",
		"tr": "tr_TR", "uk": "uk_UA", "vi": "vi_VN", "zh": "zh_CN",
	},
	ForcedBOS:   true,
	SourceToken: true,
}

// M2M100 is facebook/m2m100_418M, which uses plain ISO codes.
var M2M100 = ModelSpec{
	Family:  "m2m100",
	ModelID: "facebook/m2m100_418M",
	Codes: isoIdentity(
		"ar", "bg", "cs", "da", "de", "el", "en", "es", "et", "fi", "fr", "he",
		"hi", "hu", "it", "ja", "ko", "lt", "lv", "nl", "no", "pl", "pt", "ro",
		"ru", "sk", "sv", "tr", "uk", "vi", "zh",
	),
	ForcedBOS:   true,
	SourceToken: true,
}

// NLLB200 is facebook/nllb-200-distilled-600M with FLORES-200 codes.
var NLLB200 = ModelSpec{
	Family:  "nllb",
	ModelID: "facebook/nllb-200-distilled-600M",
	Codes: map[string]string{
		"ar": "arb_Arab", "cs": "ces_Latn", "de": "deu_Latn", "en": "eng_Latn",
		"es": "spa_Latn", "fi": "fin_Latn", "fr": "fra_Latn", "hi": "hin_Deva",
		"it": "ita_Latn", "ja": "jpn_Jpan", "ko": "kor_Hang", "nl": "nld_Latn",
		"pl": "pol_Latn", "pt": "por_Latn", "ro": "ron_Latn", "ru": "rus_Cyrl",
		"sv": "swe_Latn", "tr": "tur_Latn", "uk": "ukr_Cyrl", "zh": "zho_Hans",
	},
	ForcedBOS:   true,
	SourceToken: true,
}

// Marian is the Helsinki-NLP opus-mt family with one model per pair.
var Marian = ModelSpec{
	Family: "marian",
	Codes: isoIdentity(
		"ar", "cs", "de", "en", "es", "fi", "fr", "it", "nl", "pl", "ro", "ru",
		"sv", "uk", "zh",
	),
	RequiresSource: true,
	PairModelID: func(source, target string) string {
		return fmt.Sprintf("Helsinki-NLP/opus-mt-%s-%s", source, target)
	},
}

// T5 is t5-small, which translates from English using a task prefix.
var T5 = ModelSpec{
	Family:      "t5",
	ModelID:     "t5-small",
	Codes:       isoIdentity("en", "de", "fr", "ro"),
	SourceCodes: []string{"en"},
	TaskPrefix: func(source, target string) string {
		return fmt.Sprintf("translate %s to %s: ", validator.LanguageName(source), validator.LanguageName(target))
	},
}
