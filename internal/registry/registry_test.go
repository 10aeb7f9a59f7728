package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/translator"
)

type stubGenerator struct{}

func (stubGenerator) Name() string { return "stub" }

func (stubGenerator) Generate(_ context.Context, _, _ string, _ backend.GenerateOptions) (string, error) {
	return "translated", nil
}

type stubText struct{}

func (stubText) Name() string { return "stubmt" }

func (stubText) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

type stubModel struct{ id string }

func (m stubModel) ModelID() string { return m.id }
func (stubModel) Tokenize(context.Context, string, string) ([]int, error) {
	return []int{1}, nil
}
func (stubModel) Generate(_ context.Context, ids []int, _ backend.GenerationOptions) ([]int, error) {
	return ids, nil
}
func (stubModel) Decode(context.Context, []int) (string, error) { return "out", nil }

func testDeps() Dependencies {
	return Dependencies{
		Ollama:     stubGenerator{},
		OpenAI:     stubGenerator{},
		OpenRouter: stubGenerator{},
		Gemini:     stubGenerator{},
		Google:     stubText{},
		MyMemory:   stubText{},
		Seq2Seq: func(id string) (backend.Seq2SeqModel, error) {
			return stubModel{id: id}, nil
		},
	}
}

var standardNames = []string{"gemini", "google", "gpt", "m2m100", "marian", "mbart", "mymemory", "nllb", "ollama", "openrouter", "t5"}

func TestNew_StandardTable(t *testing.T) {
	r := New(testDeps())
	assert.Equal(t, standardNames, r.Names())
}

func TestCreate_UnknownNameListsEveryName(t *testing.T) {
	r := New(testDeps())

	_, err := r.Create("babelfish")
	require.Error(t, err)
	assert.True(t, errors.Is(err, internal.ErrValidation))
	assert.True(t, errors.Is(err, internal.ErrNotFound))

	msg := err.Error()
	listed := strings.Split(msg[strings.Index(msg, "[")+1:strings.LastIndex(msg, "]")], ", ")
	assert.ElementsMatch(t, standardNames, listed)
}

func TestCreate_Variants(t *testing.T) {
	r := New(testDeps())

	tests := []struct {
		name     string
		opts     []Option
		wantType any
	}{
		{name: "ollama", opts: []Option{WithTargetLang("de"), WithModelName("mistral:7b")}, wantType: &translator.LLM{}},
		{name: "gpt", opts: []Option{WithSourceLang("en"), WithTargetLang("de"), WithPromptType("formal")}, wantType: &translator.LLM{}},
		{name: "gemini", opts: []Option{WithTargetLang("fr"), WithTemperature(0)}, wantType: &translator.LLM{}},
		{name: "openrouter", opts: []Option{WithTargetLang("uk")}, wantType: &translator.LLM{}},
		{name: "google", opts: []Option{WithTargetLang("de")}, wantType: &translator.Direct{}},
		{name: "mymemory", opts: []Option{WithSourceLang("en"), WithTargetLang("de")}, wantType: &translator.Direct{}},
		{name: "mbart", opts: []Option{WithSourceLang("en"), WithTargetLang("de"), WithDevice("accelerator")}, wantType: &translator.Seq2Seq{}},
		{name: "marian", opts: []Option{WithSourceLang("en"), WithTargetLang("de"), WithNumBeams(2)}, wantType: &translator.Seq2Seq{}},
		{name: "t5", opts: []Option{WithSourceLang("en"), WithTargetLang("ro"), WithMaxLength(128)}, wantType: &translator.Seq2Seq{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := r.Create(tt.name, tt.opts...)
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, tr)
		})
	}
}

func TestCreate_LLMDefaults(t *testing.T) {
	r := New(testDeps())

	tr, err := r.Create("ollama", WithTargetLang("de"))
	require.NoError(t, err)

	llm := tr.(*translator.LLM)
	assert.Equal(t, "llama3.2:3b", llm.Model())
	assert.Equal(t, "default", llm.PromptStyle().Code)
	assert.Equal(t, "ollama", llm.Name())
}

func TestCreate_RejectsOptionsOutsideVariantSurface(t *testing.T) {
	r := New(testDeps())

	_, err := r.Create("google", WithTargetLang("de"), WithTemperature(0.5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internal.ErrValidation))
	assert.Contains(t, err.Error(), "option 'temperature' is not accepted by translator 'google'")
	assert.Contains(t, err.Error(), "[source_lang, target_lang]")

	_, err = r.Create("ollama", WithTargetLang("de"), WithNumBeams(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "num_beams")
}

func TestCreate_OutOfRangeValuesFailAtConstruction(t *testing.T) {
	r := New(testDeps())

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{name: "ollama", opts: []Option{WithTargetLang("de"), WithTemperature(1.01)}, want: "temperature"},
		{name: "gpt", opts: []Option{WithTargetLang("de"), WithMaxTokens(0)}, want: "max_tokens"},
		{name: "gpt", opts: []Option{WithTargetLang("de"), WithModelName("gpt-2")}, want: "gpt-4o-mini"},
		{name: "nllb", opts: []Option{WithSourceLang("en"), WithTargetLang("de"), WithMaxLength(-1)}, want: "max_length"},
		{name: "m2m100", opts: []Option{WithSourceLang("en"), WithTargetLang("de"), WithNumBeams(0)}, want: "num_beams"},
		{name: "mbart", opts: []Option{WithSourceLang("en"), WithTargetLang("de"), WithDevice("cuda")}, want: "device"},
		{name: "ollama", opts: []Option{WithTargetLang("de"), WithPromptType("custom")}, want: "custom prompt directive"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.want, func(t *testing.T) {
			tr, err := r.Create(tt.name, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, tr)
			assert.True(t, errors.Is(err, internal.ErrValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnregister_LeavesOtherEntries(t *testing.T) {
	r := New(testDeps())

	assert.True(t, r.Unregister("ollama"))
	assert.False(t, r.Unregister("ollama"))

	_, err := r.Create("ollama", WithTargetLang("de"))
	assert.True(t, errors.Is(err, internal.ErrNotFound))

	tr, err := r.Create("gpt", WithTargetLang("de"))
	require.NoError(t, err)
	assert.Equal(t, "gpt", tr.Name())
	assert.Len(t, r.Names(), len(standardNames)-1)
}

func TestRegister_OverrideForTests(t *testing.T) {
	r := New(testDeps())
	r.Register("ollama", Constructor{
		Accepts: []string{KeyTargetLang},
		New: func(o Options) (translator.Translator, error) {
			return translator.NewDirect(stubText{}, translator.DirectConfig{SourceLang: "en", TargetLang: o.TargetLang, Supported: []string{"en", "de"}})
		},
	})

	tr, err := r.Create("ollama", WithTargetLang("de"))
	require.NoError(t, err)
	assert.Equal(t, "stubmt", tr.Name())

	_, err = r.Create("mbart", WithSourceLang("en"), WithTargetLang("de"))
	assert.NoError(t, err)
}

func TestDisableDaemonBackends(t *testing.T) {
	r := New(testDeps())
	r.DisableDaemonBackends()

	assert.Equal(t, []string{"gemini", "google", "gpt", "mymemory", "openrouter"}, r.Names())
}

func TestCreate_MissingDependencies(t *testing.T) {
	r := New(Dependencies{})

	_, err := r.Create("google", WithTargetLang("de"))
	assert.True(t, errors.Is(err, internal.ErrValidation))

	_, err = r.Create("t5", WithSourceLang("en"), WithTargetLang("de"))
	assert.True(t, errors.Is(err, internal.ErrValidation))

	_, err = r.Create("gpt", WithTargetLang("de"))
	require.ErrorIs(t, err, internal.ErrValidation)
	assert.Contains(t, err.Error(), "gpt-4o-mini")
}
