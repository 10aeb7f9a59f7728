package translator

import (
	"context"
	"errors"
	"strings"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/detector"
	"github.com/valpere/transeval/internal/validator"
)

type fakeEngine struct {
	code string
	ok   bool
}

func (f fakeEngine) DetectISO(string) (string, bool) { return f.code, f.ok }

func fakeDetector(code string, ok bool, supported ...string) *detector.Detector {
	return detector.New(validator.NewLanguageSet(supported...), detector.WithEngine(fakeEngine{code: code, ok: ok}))
}

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	models   []string
	opts     []backend.GenerateOptions
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string, opts backend.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeTextTranslator struct {
	calls   int
	sources []string
	err     error
}

func (f *fakeTextTranslator) Name() string { return "fakemt" }

func (f *fakeTextTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	f.calls++
	f.sources = append(f.sources, source)
	if f.err != nil {
		return "", f.err
	}
	return " " + target + ":" + text + " ", nil
}

// fakeSeq2Seq echoes its input through the tokenize/generate/decode cycle.
type fakeSeq2Seq struct {
	id         string
	inputs     []string
	tokenSrc   []string
	genOpts    []backend.GenerationOptions
	failDecode bool
}

func (f *fakeSeq2Seq) ModelID() string { return f.id }

func (f *fakeSeq2Seq) Tokenize(_ context.Context, text, srcLang string) ([]int, error) {
	f.inputs = append(f.inputs, text)
	f.tokenSrc = append(f.tokenSrc, srcLang)
	return []int{len(f.inputs) - 1}, nil
}

func (f *fakeSeq2Seq) Generate(_ context.Context, ids []int, opts backend.GenerationOptions) ([]int, error) {
	f.genOpts = append(f.genOpts, opts)
	return ids, nil
}

func (f *fakeSeq2Seq) Decode(_ context.Context, ids []int) (string, error) {
	if f.failDecode {
		return "", errCUDA
	}
	return " decoded:" + strings.ToUpper(f.inputs[ids[0]]) + " ", nil
}

type cudaError struct{}

func (cudaError) Error() string { return "CUDA out of memory" }

var errCUDA error = cudaError{}

func loaderFor(m *fakeSeq2Seq) ModelLoader {
	return func(id string) (backend.Seq2SeqModel, error) {
		m.id = id
		return m, nil
	}
}

type fakeMemory struct {
	entries map[internal.MemoryKey]map[string]string
	similar string
	saves   int
	getErr  error
}

func (m *fakeMemory) Recall(_ context.Context, key internal.MemoryKey, text string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	out, ok := m.entries[key][text]
	return out, ok, nil
}

func (m *fakeMemory) RecallSimilar(_ context.Context, _ internal.MemoryKey, _ string, threshold float64) (string, bool, error) {
	if threshold <= 0 || m.similar == "" {
		return "", false, nil
	}
	return m.similar, true, nil
}

func (m *fakeMemory) Remember(_ context.Context, key internal.MemoryKey, text, translation string) error {
	m.saves++
	if m.entries == nil {
		m.entries = map[internal.MemoryKey]map[string]string{}
	}
	if m.entries[key] == nil {
		m.entries[key] = map[string]string{}
	}
	m.entries[key][text] = translation
	return nil
}

var errBackend = errors.New("connection refused")
