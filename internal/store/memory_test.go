package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/valpere/transeval/internal"
)

var (
	gptFormal    = internal.MemoryKey{Translator: "gpt", Model: "gpt-4o-mini", Style: "formal", SourceLang: "de", TargetLang: "en"}
	ollamaPoetic = internal.MemoryKey{Translator: "ollama", Model: "gemma3:4b", Style: "poetic", SourceLang: "de", TargetLang: "en"}
	nllbDeEn     = internal.MemoryKey{Translator: "nllb", Model: "facebook/nllb-200-distilled-600M", SourceLang: "de", TargetLang: "en"}
)

func remember(t *testing.T, s *Store, key internal.MemoryKey, text, translation string) {
	t.Helper()
	if err := s.Remember(context.Background(), key, text, translation); err != nil {
		t.Fatalf("Remember(%s, %q): %v", key.Translator, text, err)
	}
}

func TestRecall_MissAndHit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Recall(ctx, nllbDeEn, "Guten Morgen"); err != nil || ok {
		t.Fatalf("empty memory: ok=%v err=%v", ok, err)
	}

	remember(t, s, nllbDeEn, "  Guten Morgen ", "Good morning")
	got, ok, err := s.Recall(ctx, nllbDeEn, "Guten Morgen")
	if err != nil || !ok || got != "Good morning" {
		t.Fatalf("Recall = %q, %v, %v", got, ok, err)
	}

	entries, err := s.Entries(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Hits != 1 || entries[0].Key != nllbDeEn {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRecall_ScopedToTranslatorConfiguration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	remember(t, s, gptFormal, "Guten Morgen", "A formal good morning")

	otherModel := gptFormal
	otherModel.Model = "gpt-4o"
	otherStyle := gptFormal
	otherStyle.Style = "poetic"
	otherPair := gptFormal
	otherPair.TargetLang = "uk"

	for name, key := range map[string]internal.MemoryKey{
		"other translator": ollamaPoetic,
		"other model":      otherModel,
		"other style":      otherStyle,
		"other pair":       otherPair,
	} {
		if got, ok, err := s.Recall(ctx, key, "Guten Morgen"); err != nil || ok {
			t.Errorf("%s: Recall = %q, %v, %v", name, got, ok, err)
		}
		if got, ok, err := s.RecallSimilar(ctx, key, "Guten Morgen!", 0.8); err != nil || ok {
			t.Errorf("%s: RecallSimilar = %q, %v, %v", name, got, ok, err)
		}
	}

	remember(t, s, ollamaPoetic, "Guten Morgen", "Dawn greets thee")
	for key, want := range map[internal.MemoryKey]string{gptFormal: "A formal good morning", ollamaPoetic: "Dawn greets thee"} {
		if got, _, _ := s.Recall(ctx, key, "Guten Morgen"); got != want {
			t.Errorf("%s: got %q, want %q", key.Translator, got, want)
		}
	}
}

func TestRemember_OverwritesAndRevives(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	remember(t, s, nllbDeEn, "Hallo", "Hi")

	entries, _ := s.Entries(ctx, "")
	if err := s.Invalidate(ctx, entries[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Recall(ctx, nllbDeEn, "Hallo"); ok {
		t.Fatal("invalidated entry was recalled")
	}

	remember(t, s, nllbDeEn, "Hallo", "Hello")
	got, ok, err := s.Recall(ctx, nllbDeEn, "Hallo")
	if err != nil || !ok || got != "Hello" {
		t.Errorf("Recall = %q, %v, %v", got, ok, err)
	}
	if entries, _ := s.Entries(ctx, ""); len(entries) != 1 {
		t.Errorf("expected one entry, got %d", len(entries))
	}
}

func TestRemember_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Remember(ctx, nllbDeEn, "   ", "x"); !errors.Is(err, internal.ErrValidation) {
		t.Errorf("blank text: %v", err)
	}
	if err := s.Remember(ctx, internal.MemoryKey{SourceLang: "de", TargetLang: "en"}, "Hallo", "x"); !errors.Is(err, internal.ErrValidation) {
		t.Errorf("no translator: %v", err)
	}
}

func TestRecallSimilar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	remember(t, s, nllbDeEn, "Das Wetter ist heute schön", "The weather is nice today")
	remember(t, s, nllbDeEn, "Das Wetter ist heute schlecht", "The weather is bad today")

	tests := []struct {
		name      string
		text      string
		threshold float64
		want      string
	}{
		{"disabled", "Das Wetter ist heute schön", 0, ""},
		{"out of range", "Das Wetter ist heute schön", 1.5, ""},
		{"near match", "Das Wetter ist heute schön!", 0.9, "The weather is nice today"},
		{"best candidate wins", "Das Wetter ist heute schlecht.", 0.8, "The weather is bad today"},
		{"too different", "Ich habe keine Ahnung", 0.9, ""},
		{"length outside window", "Wetter", 0.9, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.RecallSimilar(ctx, nllbDeEn, tt.text, tt.threshold)
			if err != nil {
				t.Fatal(err)
			}
			if ok != (tt.want != "") || got != tt.want {
				t.Errorf("RecallSimilar(%q) = %q, %v; want %q", tt.text, got, ok, tt.want)
			}
		})
	}
}

func TestForgetInvalidate_UnknownID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Forget(ctx, "missing"); !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("Forget: %v", err)
	}
	if err := s.Invalidate(ctx, "missing"); !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("Invalidate: %v", err)
	}
}

func TestEntriesPurgeAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	remember(t, s, gptFormal, "Hallo", "Greetings")
	remember(t, s, ollamaPoetic, "Hallo", "O hail")
	remember(t, s, ollamaPoetic, "Welt", "O world")
	s.Recall(ctx, ollamaPoetic, "Welt")

	poetic, err := s.Entries(ctx, "ollama")
	if err != nil || len(poetic) != 2 {
		t.Fatalf("Entries(ollama) = %+v, %v", poetic, err)
	}
	if err := s.Forget(ctx, poetic[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Invalidate(ctx, poetic[1].ID); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 2 || stats.Active != 1 || stats.Invalidated != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.PerTranslator["gpt"] != 1 || stats.PerTranslator["ollama"] != 0 {
		t.Errorf("per translator = %v", stats.PerTranslator)
	}

	n, err := s.Purge(ctx, "gpt")
	if err != nil || n != 1 {
		t.Errorf("Purge(gpt) = %d, %v", n, err)
	}
	n, err = s.Purge(ctx, "")
	if err != nil || n != 1 {
		t.Errorf("Purge(all) = %d, %v", n, err)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := map[string]string{
		"  Guten Tag  ":     "Guten Tag",
		"Cafe\u0301":        "Caf\u00e9",
		"\t\nGuten Tag\t\n": "Guten Tag",
		"":                  "",
	}
	for in, want := range tests {
		if got := normalizeText(in); got != want {
			t.Errorf("normalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1},
		{"", "", 1},
		{"abcd", "abce", 0.75},
		{"kitten", "sitting", 1 - 3.0/7.0},
		{"schön", "schon", 0.8},
	}
	for _, tt := range tests {
		if got := stringSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("stringSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
