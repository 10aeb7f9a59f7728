// Package prompt resolves named prompt styles and renders them for
// generative translation backends.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/valpere/transeval/internal"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Style is one entry of the closed prompt style table.
type Style struct {
	Code        string
	Description string
	Template    string
}

// Custom is the free-form style; rendering it requires a directive.
const Custom = "custom"

// Default is the style used when none is configured.
const Default = "default"

var styles = []Style{
	{Code: Default, Description: "Basic Translation", Template: "default_translation.tmpl"},
	{Code: "formal", Description: "Formal Translation", Template: "formal_translation.tmpl"},
	{Code: "translate_and_summarize", Description: "Translation and Summary", Template: "summarize_translation.tmpl"},
	{Code: "formal_translate_and_summarize", Description: "Formal Translation and Summary", Template: "formal_summarize_translation.tmpl"},
	{Code: "romantic", Description: "Romantic Translation", Template: "romantic_translation.tmpl"},
	{Code: "poetic", Description: "Poetic Translation", Template: "poetic_translation.tmpl"},
	{Code: Custom, Description: "Custom Translation", Template: "custom_translation.tmpl"},
}

var parsed = template.Must(template.New("prompts").ParseFS(templatesFS, "templates/*.tmpl"))

// Data holds the variables available to every template.
type Data struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
	Directive      string
}

// Codes returns every known style code in table order.
func Codes() []string {
	codes := make([]string, len(styles))
	for i, s := range styles {
		codes[i] = s.Code
	}
	return codes
}

// Styles returns a copy of the style table.
func Styles() []Style {
	return append([]Style(nil), styles...)
}

// Resolve looks up a style by code, ignoring case.
func Resolve(code string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(code))
	for _, s := range styles {
		if s.Code == key {
			return s, nil
		}
	}
	return Style{}, internal.UnknownKeyf("unallowed prompt style code '%s'; available codes: [%s]",
		code, strings.Join(Codes(), ", "))
}

// Render fills the style's template with data.
func Render(style Style, data Data) (string, error) {
	if style.Code == Custom && strings.TrimSpace(data.Directive) == "" {
		return "", internal.Validationf("prompt style '%s' requires a custom prompt directive", Custom)
	}
	tpl := parsed.Lookup(style.Template)
	if tpl == nil {
		return "", internal.NotFoundf("template %q for prompt style '%s'", style.Template, style.Code)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", style.Code, err)
	}
	return buf.String(), nil
}
