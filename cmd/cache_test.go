package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/store"
)

func TestWriteEntries(t *testing.T) {
	entries := []store.MemoryEntry{
		{
			ID:         "a1",
			Key:        internal.MemoryKey{Translator: "ollama", Model: "gemma3:4b", Style: "poetic", SourceLang: "de", TargetLang: "en"},
			SourceText: strings.Repeat("Guten Morgen ", 5),
			Hits:       3,
			LastUsed:   time.Now(),
		},
		{
			ID:          "b2",
			Key:         internal.MemoryKey{Translator: "google", SourceLang: "auto", TargetLang: "uk"},
			SourceText:  "Hallo",
			Invalidated: true,
			LastUsed:    time.Now(),
		},
	}

	var buf bytes.Buffer
	if err := writeEntries(&buf, entries); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	for _, want := range []string{"TRANSLATOR", "MODEL", "STYLE", "PAIR"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("header missing %s: %q", want, lines[0])
		}
	}
	for _, want := range []string{"ollama", "gemma3:4b", "poetic", "de-en", "active", "..."} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row missing %q: %q", want, lines[1])
		}
	}
	if f := strings.Fields(lines[2]); len(f) < 9 || f[2] != "-" || f[3] != "-" || f[4] != "auto-uk" || f[8] != "invalid" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("Grüße aus Kyjiw", 8); got != "Grüße..." {
		t.Errorf("snippet = %q", got)
	}
	if got := snippet("kurz", 8); got != "kurz" {
		t.Errorf("snippet = %q", got)
	}
}
