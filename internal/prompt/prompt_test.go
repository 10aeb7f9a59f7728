package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/valpere/transeval/internal"
)

func TestResolve_CaseInsensitive(t *testing.T) {
	tests := map[string]string{
		"default":                        "default",
		"DEFAULT":                        "default",
		"ForMal":                         "formal",
		"translate_and_summarize":        "translate_and_summarize",
		"formal_translate_and_summarize": "formal_translate_and_summarize",
		"romantic":                       "romantic",
		"POETIC":                         "poetic",
		"Custom":                         "custom",
	}
	for in, want := range tests {
		s, err := Resolve(in)
		if err != nil {
			t.Errorf("Resolve(%q) unexpected error: %v", in, err)
			continue
		}
		if s.Code != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, s.Code, want)
		}
	}
}

func TestResolve_UnknownListsAllCodes(t *testing.T) {
	_, err := Resolve("non_existent_style")
	if !errors.Is(err, internal.ErrValidation) || !errors.Is(err, internal.ErrNotFound) {
		t.Fatalf("expected validation and not-found error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "unallowed prompt style code 'non_existent_style'") {
		t.Errorf("unexpected message %q", msg)
	}

	start := strings.Index(msg, "[")
	end := strings.LastIndex(msg, "]")
	if start < 0 || end < start {
		t.Fatalf("no code list in %q", msg)
	}
	listed := strings.Split(msg[start+1:end], ", ")
	if len(listed) != len(Codes()) {
		t.Fatalf("listed %v, want %v", listed, Codes())
	}
	for i, code := range Codes() {
		if listed[i] != code {
			t.Errorf("listed[%d] = %q, want %q", i, listed[i], code)
		}
	}
}

func TestStyles_UniqueLowercaseCodes(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Styles() {
		if s.Code != strings.ToLower(s.Code) {
			t.Errorf("code %q is not lowercase", s.Code)
		}
		if seen[s.Code] {
			t.Errorf("duplicate code %q", s.Code)
		}
		seen[s.Code] = true
		if s.Description == "" {
			t.Errorf("style %q has no description", s.Code)
		}
	}
}

func TestRender_AllStylesContainTextAndLanguages(t *testing.T) {
	data := Data{
		Text:           "Hallo Welt",
		SourceLanguage: "German",
		TargetLanguage: "English",
		Directive:      "translate like Lothar Matthäus",
	}
	for _, s := range Styles() {
		t.Run(s.Code, func(t *testing.T) {
			out, err := Render(s, data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range []string{data.Text, data.SourceLanguage, data.TargetLanguage} {
				if !strings.Contains(out, want) {
					t.Errorf("rendered prompt missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRender_Custom(t *testing.T) {
	s, err := Resolve(Custom)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Render(s, Data{Text: "Hallo Welt", SourceLanguage: "German", TargetLanguage: "English", Directive: "translate like Lothar Matthäus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "translate like Lothar Matthäus") {
		t.Errorf("directive missing from prompt:\n%s", out)
	}

	_, err = Render(s, Data{Text: "Hallo Welt", TargetLanguage: "English", Directive: "  "})
	if !errors.Is(err, internal.ErrValidation) {
		t.Errorf("expected ErrValidation without directive, got %v", err)
	}
}

func TestRender_WithoutSourceLanguage(t *testing.T) {
	s, _ := Resolve(Default)
	out, err := Render(s, Data{Text: "Hallo Welt", TargetLanguage: "English"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "from  to") || strings.Contains(out, "from to") {
		t.Errorf("dangling source phrase:\n%s", out)
	}
	if !strings.Contains(out, "to English") {
		t.Errorf("target missing:\n%s", out)
	}
}
