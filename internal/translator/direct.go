package translator

import (
	"context"
	"strings"

	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/detector"
	"github.com/valpere/transeval/internal/validator"
)

// DirectConfig configures a Direct translator.
type DirectConfig struct {
	SourceLang string
	TargetLang string
	Supported  []string
	// AutoDetect lets the service detect the source language when local
	// detection is inconclusive.
	AutoDetect bool
	Detector   *detector.Detector
}

// Direct translates through a machine translation API that accepts plain
// text and returns plain text.
type Direct struct {
	core
	backend backend.TextTranslator
}

var _ Translator = (*Direct)(nil)

func NewDirect(tr backend.TextTranslator, cfg DirectConfig) (*Direct, error) {
	c, err := newCore(tr.Name(), cfg.SourceLang, cfg.TargetLang, validator.NewLanguageSet(cfg.Supported...), cfg.Detector)
	if err != nil {
		return nil, err
	}
	c.lenientDetection = cfg.AutoDetect
	return &Direct{core: c, backend: tr}, nil
}

func (d *Direct) call(ctx context.Context, text, source string) (string, error) {
	out, err := d.backend.Translate(ctx, text, source, d.target)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (d *Direct) Translate(ctx context.Context, text string) (string, error) {
	return d.translate(ctx, text, d.call)
}

func (d *Direct) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	return d.translateBatch(ctx, texts, d.call)
}
