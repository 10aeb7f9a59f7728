package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/valpere/transeval/internal/chunker"
)

func TestSplit_ShortText(t *testing.T) {
	chunks := chunker.Split("  Hello, world!  ", 100)
	if len(chunks) != 1 || chunks[0].Text != "Hello, world!" || chunks[0].Sep != "" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
}

func TestSplit_Unlimited(t *testing.T) {
	text := strings.Repeat("word ", 500)
	if chunks := chunker.Split(text, 0); len(chunks) != 1 {
		t.Errorf("expected 1 chunk when maxRunes=0, got %d", len(chunks))
	}
}

func TestSplit_Empty(t *testing.T) {
	if chunks := chunker.Split(" \n\t ", 10); chunks != nil {
		t.Errorf("expected no chunks, got %+v", chunks)
	}
}

func TestSplit_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		max   int
		texts []string
		seps  []string
	}{
		{
			name:  "paragraph",
			text:  "First paragraph here.\n\nSecond paragraph here.",
			max:   30,
			texts: []string{"First paragraph here.", "Second paragraph here."},
			seps:  []string{"\n\n", ""},
		},
		{
			name:  "sentence",
			text:  "One sentence ends. Another one follows here.",
			max:   25,
			texts: []string{"One sentence ends.", "Another one follows here."},
			seps:  []string{" ", ""},
		},
		{
			name:  "word",
			text:  "one two three four five six",
			max:   10,
			texts: []string{"one two", "three four", "five six"},
			seps:  []string{" ", " ", ""},
		},
		{
			name:  "hard cut",
			text:  "abcdefghij",
			max:   4,
			texts: []string{"abcd", "efgh", "ij"},
			seps:  []string{"", "", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunker.Split(tt.text, tt.max)
			got := chunker.Texts(chunks)
			if strings.Join(got, "|") != strings.Join(tt.texts, "|") {
				t.Fatalf("texts = %q, want %q", got, tt.texts)
			}
			for i, c := range chunks {
				if c.Sep != tt.seps[i] {
					t.Errorf("chunk %d sep = %q, want %q", i, c.Sep, tt.seps[i])
				}
				if n := utf8.RuneCountInString(c.Text); n > tt.max {
					t.Errorf("chunk %d has %d runes, limit %d", i, n, tt.max)
				}
			}
		})
	}
}

func TestSplit_MultibyteLimit(t *testing.T) {
	text := "Привіт світ. Як справи сьогодні?"
	for _, c := range chunker.Split(text, 12) {
		if n := utf8.RuneCountInString(c.Text); n > 12 {
			t.Errorf("chunk %q has %d runes", c.Text, n)
		}
	}
}

func TestJoin_RoundTrip(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog.\n\nPack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump!"
	chunks := chunker.Split(text, 45)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %+v", chunks)
	}
	if got := chunker.Join(chunks, chunker.Texts(chunks)); got != text {
		t.Errorf("Join = %q, want %q", got, text)
	}
}
