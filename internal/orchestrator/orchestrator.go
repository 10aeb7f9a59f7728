// Package orchestrator evaluates named translators against reference corpora
// and reports their metric scores.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/valpere/transeval/internal"
	"github.com/valpere/transeval/internal/metrics"
	"github.com/valpere/transeval/internal/report"
	"github.com/valpere/transeval/internal/translator"
)

// Recorder persists the scores of one Evaluate call.
type Recorder interface {
	SaveScores(ctx context.Context, run internal.EvaluationRun, results map[string]internal.Scores) error
}

type Orchestrator struct {
	mu       sync.Mutex
	models   map[string]translator.Translator
	results  map[string]internal.Scores
	metrics  []metrics.Metric
	recorder Recorder
	logger   zerolog.Logger
}

type Option func(*Orchestrator)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics replaces the default BLEU and METEOR metrics.
func WithMetrics(m ...metrics.Metric) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithRecorder stores every evaluation run. Recorder failures are logged.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		models:  make(map[string]translator.Translator),
		results: make(map[string]internal.Scores),
		metrics: metrics.Default(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterModel adds t under name, replacing any model already registered
// under it.
func (o *Orchestrator) RegisterModel(name string, t translator.Translator) error {
	if name == "" {
		return internal.Validationf("model name must be a non-empty string")
	}
	if t == nil {
		return internal.Validationf("translator for model '%s' must not be nil", name)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.models[name]; exists {
		o.logger.Warn().Str("model", name).Msgf("Overwriting existing model '%s'.", name)
	}
	o.models[name] = t
	return nil
}

// Models returns the registered model names in sorted order.
func (o *Orchestrator) Models() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sortedModels()
}

func (o *Orchestrator) sortedModels() []string {
	names := make([]string, 0, len(o.models))
	for name := range o.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate translates inputs with each named model, or every registered model
// when none are named, and scores the output against references. A model's
// scores replace any earlier scores stored for it. The returned map is a copy
// of all stored results.
func (o *Orchestrator) Evaluate(ctx context.Context, inputs, references []string, modelNames ...string) (map[string]internal.Scores, error) {
	if len(inputs) != len(references) {
		return nil, internal.Validationf("inputs length (%d) does not match references length (%d)",
			len(inputs), len(references))
	}

	selected, err := o.selectModels(modelNames)
	if err != nil {
		return nil, err
	}

	refs := make([][]string, len(references))
	for i, r := range references {
		refs[i] = []string{r}
	}

	names := make([]string, len(selected))
	evaluated := make(map[string]internal.Scores, len(selected))
	for i, m := range selected {
		name := m.name
		names[i] = name
		o.logger.Info().Str("model", name).Int("samples", len(inputs)).Msg("evaluating model")

		scores, err := o.evaluateModel(ctx, m.translator, inputs, refs)
		if err != nil {
			return nil, fmt.Errorf("evaluate model '%s': %w", name, err)
		}

		o.mu.Lock()
		o.results[name] = scores
		o.mu.Unlock()
		evaluated[name] = scores.Clone()

		o.logger.Info().Str("model", name).Interface("scores", scores).Msg("model evaluated")
	}

	o.record(ctx, names, len(inputs), evaluated)
	return o.Results(), nil
}

type model struct {
	name       string
	translator translator.Translator
}

// selectModels resolves and checks every requested name before any work is
// done.
func (o *Orchestrator) selectModels(names []string) ([]model, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(names) == 0 {
		names = o.sortedModels()
		if len(names) == 0 {
			return nil, internal.Validationf("no models registered")
		}
	}

	var (
		selected []model
		missing  []string
		seen     = make(map[string]bool)
	)
	for _, name := range names {
		t, ok := o.models[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, model{name: name, translator: t})
		}
	}
	if len(missing) > 0 {
		return nil, internal.NotFoundf("models not registered: %v; registered models: %v", missing, o.sortedModels())
	}
	return selected, nil
}

func (o *Orchestrator) evaluateModel(ctx context.Context, t translator.Translator, inputs []string, refs [][]string) (internal.Scores, error) {
	predictions := make([]string, len(inputs))
	for i, text := range inputs {
		out, err := t.Translate(ctx, text)
		if err != nil {
			return nil, err
		}
		predictions[i] = out
	}

	scores := make(internal.Scores, len(o.metrics))
	for _, m := range o.metrics {
		v, err := m.Compute(predictions, refs)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", m.Name(), err)
		}
		scores[m.Name()] = v
	}
	return scores, nil
}

func (o *Orchestrator) record(ctx context.Context, models []string, samples int, results map[string]internal.Scores) {
	if o.recorder == nil {
		return
	}
	run := internal.EvaluationRun{
		ID:        uuid.New().String(),
		Models:    models,
		Samples:   samples,
		Timestamp: time.Now(),
	}
	if err := o.recorder.SaveScores(ctx, run, results); err != nil {
		o.logger.Warn().Err(err).Str("run_id", run.ID).Msg("failed to record evaluation run")
		return
	}
	o.logger.Debug().Str("run_id", run.ID).Msg("evaluation run recorded")
}

// Results returns a copy of every stored score.
func (o *Orchestrator) Results() map[string]internal.Scores {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]internal.Scores, len(o.results))
	for name, scores := range o.results {
		out[name] = scores.Clone()
	}
	return out
}

// GenerateReport writes the stored scores to dest, restricted to models when
// any are given. Markdown and HTML follow the file extension; anything else is
// written as CSV. The full table is always logged; a failed write is logged
// and not returned.
func (o *Orchestrator) GenerateReport(dest string, models ...string) error {
	results := o.Results()
	if len(results) == 0 {
		return internal.Validationf("no evaluation results available; run Evaluate first")
	}
	table, missing := report.NewTable(results, models...)
	for _, name := range missing {
		o.logger.Warn().Str("model", name).Msgf("Model '%s' has no evaluation results; skipping.", name)
	}

	full, _ := report.NewTable(results)
	o.logger.Info().Msg("Evaluation results:\n" + report.Render(full))

	if err := report.WriteFile(dest, table); err != nil {
		o.logger.Error().Err(err).Str("destination", dest).Msgf("Failed to write report to %s", dest)
		return nil
	}
	o.logger.Info().Str("destination", dest).Int("rows", len(table.Rows)).Msg("report written")
	return nil
}
