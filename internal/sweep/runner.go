// Package sweep evaluates a set of models over several language pairs and
// writes one combined report.
package sweep

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/dataset"
	"github.com/valpere/transeval/internal/orchestrator"
)

type Runner struct {
	models       ModelRegistry
	loader       dataset.Loader
	orchestrator *orchestrator.Orchestrator
	logger       zerolog.Logger
}

func NewRunner(models ModelRegistry, loader dataset.Loader, orch *orchestrator.Orchestrator, logger zerolog.Logger) *Runner {
	return &Runner{models: models, loader: loader, orchestrator: orch, logger: logger}
}

// Summary lists the model ids that were evaluated and those that were skipped.
type Summary struct {
	Evaluated []string
	Skipped   []string
}

// ModelID names a model evaluated on one pair, e.g. "nllb_de-en".
func ModelID(model string, pair internal.LanguagePair) string {
	return fmt.Sprintf("%s_%s", model, pair)
}

// Run evaluates every plan model on every plan pair. Failures for a single
// model or pair are logged and skipped. The report is generated from whatever
// was evaluated.
func (r *Runner) Run(ctx context.Context, plan Plan) (Summary, error) {
	var sum Summary
	if err := plan.Validate(); err != nil {
		return sum, err
	}
	pairs, _ := plan.LanguagePairs()

	corpora := make(map[internal.LanguagePair]dataset.Corpus)
	failedPairs := make(map[internal.LanguagePair]bool)

	for _, key := range plan.Models {
		factory, ok := r.models[key]
		if !ok {
			r.logger.Warn().Str("model", key).Msgf("Skipping unknown model: %s", key)
			sum.Skipped = append(sum.Skipped, key)
			continue
		}

		for _, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			id := ModelID(key, pair)

			corpus, ok := corpora[pair]
			if !ok && !failedPairs[pair] {
				c, err := r.loader.Load(pair)
				if err != nil {
					r.logger.Warn().Err(err).Str("pair", pair.String()).Msgf("Failed to load dataset for %s", pair)
					failedPairs[pair] = true
				} else {
					corpora[pair] = c
					corpus, ok = c, true
				}
			}
			if !ok {
				sum.Skipped = append(sum.Skipped, id)
				continue
			}

			r.logger.Info().Str("model", key).Str("pair", pair.String()).Msgf("Evaluating %s on %s", strings.ToUpper(key), pair)
			if err := r.evaluate(ctx, id, factory, pair, corpus); err != nil {
				r.logger.Warn().Err(err).Str("model", id).Msgf("Failed to evaluate %s on %s", key, pair)
				sum.Skipped = append(sum.Skipped, id)
				continue
			}
			sum.Evaluated = append(sum.Evaluated, id)
		}
	}

	if err := r.orchestrator.GenerateReport(plan.Report); err != nil {
		return sum, err
	}
	return sum, nil
}

func (r *Runner) evaluate(ctx context.Context, id string, factory ModelFactory, pair internal.LanguagePair, corpus dataset.Corpus) error {
	t, err := factory(pair)
	if err != nil {
		return fmt.Errorf("create translator: %w", err)
	}
	if err := r.orchestrator.RegisterModel(id, t); err != nil {
		return err
	}
	_, err = r.orchestrator.Evaluate(ctx, corpus.Sources, corpus.References, id)
	return err
}
