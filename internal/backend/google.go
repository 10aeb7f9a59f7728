package backend

import (
	"context"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// Google translates with the Cloud Translation API. A client is created per
// call from credentialsFile or the ambient application default credentials.
type Google struct {
	credentialsFile string
	opts            []option.ClientOption
}

func NewGoogle(credentialsFile string, opts ...option.ClientOption) *Google {
	return &Google{credentialsFile: credentialsFile, opts: opts}
}

func (g *Google) Name() string {
	return "google"
}

func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	targetTag, err := language.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target language: %w", err)
	}

	opts := append([]option.ClientOption{}, g.opts...)
	if g.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(g.credentialsFile))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	var topts *translate.Options
	if source != "" {
		sourceTag, err := language.Parse(source)
		if err != nil {
			return "", fmt.Errorf("invalid source language: %w", err)
		}
		topts = &translate.Options{Source: sourceTag, Format: translate.Text}
	} else {
		topts = &translate.Options{Format: translate.Text}
	}

	translations, err := client.Translate(ctx, []string{text}, targetTag, topts)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("no translation returned")
	}
	return translations[0].Text, nil
}

// GoogleLanguages are the codes the Cloud Translation API is used with here.
var GoogleLanguages = []string{
	"ar", "bg", "ca", "cs", "da", "de", "el", "en", "es", "fi", "fr", "he",
	"hi", "hu", "id", "it", "ja", "ko", "nl", "no", "pl", "pt", "ro", "ru",
	"sk", "sv", "th", "tr", "uk", "vi", "zh",
}
