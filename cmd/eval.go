/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/dataset"
	"github.com/valpere/transeval/internal/orchestrator"
	"github.com/valpere/transeval/internal/registry"
)

var (
	evalModels  []string
	evalDataset string
	evalSource  string
	evalTarget  string
	evalLimit   int
	evalReport  string
	evalOnly    []string
	evalHistory bool
	evalDBPath  string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score translators against a parallel corpus",
	Long: `Register one or more translators under model names, translate the source side
of a corpus with each and score the output against the reference side.

Models are given as name=translator[:key=value,...], for example:

  transeval eval -d wmt.jsonl -s de -t en \
    --model nllb=nllb \
    --model gemma=ollama:model_name=gemma3:4b,prompt_type=formal

The source and target languages are applied to every model unless a model
spec sets them itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(evalModels) == 0 {
			return fmt.Errorf("at least one --model is required")
		}

		corpus, err := dataset.Load(evalDataset, evalSource, evalTarget, evalLimit)
		if err != nil {
			return err
		}

		opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
		if evalHistory {
			db, err := openStore(evalDBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			opts = append(opts, orchestrator.WithRecorder(db))
		}
		orch := orchestrator.New(opts...)

		reg := newRegistry()
		for _, spec := range evalModels {
			name, trName, pairs, err := parseModelSpec(spec)
			if err != nil {
				return err
			}
			kv, err := registry.ParsePairs(pairs)
			if err != nil {
				return err
			}
			if _, ok := kv[registry.KeySourceLang]; !ok {
				kv[registry.KeySourceLang] = corpus.Pair.Source
			}
			if _, ok := kv[registry.KeyTargetLang]; !ok {
				kv[registry.KeyTargetLang] = corpus.Pair.Target
			}
			factoryOpts, err := registry.ParseOptions(kv)
			if err != nil {
				return err
			}
			tr, err := reg.Create(trName, factoryOpts...)
			if err != nil {
				return fmt.Errorf("model %s: %w", name, err)
			}
			if err := orch.RegisterModel(name, tr); err != nil {
				return err
			}
		}

		logger.Info().Int("samples", corpus.Len()).Str("pair", corpus.Pair.String()).Msg("corpus loaded")
		results, err := orch.Evaluate(context.Background(), corpus.Sources, corpus.References)
		if err != nil {
			return err
		}
		logger.Debug().Interface("results", results).Msg("evaluation finished")

		return orch.GenerateReport(evalReport, evalOnly...)
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringArrayVar(&evalModels, "model", nil, "Model as name=translator[:key=value,...] (repeatable)")
	evalCmd.Flags().StringVarP(&evalDataset, "dataset", "d", "", "Corpus file (.csv, .tsv or .jsonl)")
	evalCmd.Flags().StringVarP(&evalSource, "source", "s", "", "Source language column")
	evalCmd.Flags().StringVarP(&evalTarget, "target", "t", "", "Reference language column")
	evalCmd.Flags().IntVarP(&evalLimit, "limit", "n", 0, "Maximum sentence pairs (0 = all)")
	evalCmd.Flags().StringVarP(&evalReport, "report", "r", "reports/evaluation_report.csv", "Report file (.md or .html, otherwise CSV)")
	evalCmd.Flags().StringSliceVar(&evalOnly, "only", nil, "Restrict report rows to these models")
	evalCmd.Flags().BoolVar(&evalHistory, "history", true, "Record scores in the history database")
	evalCmd.Flags().StringVar(&evalDBPath, "db", "", "Database path (defaults to TRANSEVAL_DB)")

	evalCmd.MarkFlagRequired("dataset")
	evalCmd.MarkFlagRequired("source")
	evalCmd.MarkFlagRequired("target")
}
