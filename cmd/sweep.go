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
	"github.com/spf13/viper"

	"github.com/valpere/transeval/internal/dataset"
	"github.com/valpere/transeval/internal/orchestrator"
	"github.com/valpere/transeval/internal/sweep"
)

var (
	sweepPlanFile string
	sweepHistory  bool
	sweepDBPath   string
	sweepViper    = viper.New()
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate many models over several language pairs",
	Long: `Evaluate every model of a plan on every language pair of the plan and write a
single report. Corpora are read from <dataset.dir>/<src>-<tgt>.{jsonl,csv,tsv}.

Example plan (YAML):

  models: [nllb, m2m100, mbart50, marian, t5, llama3.2, gemma]
  pairs: [de-en, en-de]
  dataset:
    dir: data
    limit: 1000
  report: reports/sweep_report.csv

Flags override values from the plan. A model that fails on a pair is skipped
with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepPlanFile != "" {
			sweepViper.SetConfigFile(sweepPlanFile)
			if err := sweepViper.ReadInConfig(); err != nil {
				return fmt.Errorf("read sweep plan: %w", err)
			}
		}
		plan, err := sweep.PlanFrom(sweepViper)
		if err != nil {
			return err
		}

		opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
		if sweepHistory {
			db, err := openStore(sweepDBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			opts = append(opts, orchestrator.WithRecorder(db))
		}

		runner := sweep.NewRunner(
			sweep.StandardModels(newRegistry()),
			dataset.DirLoader{Dir: plan.Dataset.Dir, Limit: plan.Dataset.Limit},
			orchestrator.New(opts...),
			logger,
		)

		sum, err := runner.Run(context.Background(), plan)
		if err != nil {
			return err
		}
		fmt.Printf("Evaluated %d model/pair combinations, skipped %d\n", len(sum.Evaluated), len(sum.Skipped))
		fmt.Printf("Report written to %s\n", plan.Report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	f := sweepCmd.Flags()
	f.StringVar(&sweepPlanFile, "plan", "", "Sweep plan file (YAML)")
	f.StringSlice("models", sweep.DefaultModels, "Model keys to evaluate")
	f.StringSlice("pairs", []string{"de-en"}, "Language pairs as src-tgt")
	f.String("dataset-dir", "data", "Directory holding <src>-<tgt> corpora")
	f.Int("limit", 1000, "Maximum sentence pairs per corpus (0 = all)")
	f.String("report", "reports/evaluation_report.csv", "Report file (.md or .html, otherwise CSV)")
	f.BoolVar(&sweepHistory, "history", true, "Record scores in the history database")
	f.StringVar(&sweepDBPath, "db", "", "Database path (defaults to TRANSEVAL_DB)")

	sweep.SetDefaults(sweepViper)
	sweepViper.BindPFlag("models", f.Lookup("models"))
	sweepViper.BindPFlag("pairs", f.Lookup("pairs"))
	sweepViper.BindPFlag("dataset.dir", f.Lookup("dataset-dir"))
	sweepViper.BindPFlag("dataset.limit", f.Lookup("limit"))
	sweepViper.BindPFlag("report", f.Lookup("report"))
}
