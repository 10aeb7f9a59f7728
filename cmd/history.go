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
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/report"
)

var (
	historyDBPath string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No evaluation runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tSAMPLES\tMODELS")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Samples, strings.Join(r.Models, ", "))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the scores of one evaluation run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		results, err := db.RunScores(context.Background(), args[0])
		if err != nil {
			return err
		}
		table, _ := report.NewTable(results)
		fmt.Print(report.Render(table))
		return nil
	},
}

var historyModelCmd = &cobra.Command{
	Use:   "model <name>",
	Short: "Show every recorded score of one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runIDs, results, err := db.ModelHistory(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(runIDs) == 0 {
			fmt.Printf("No scores recorded for %s.\n", args[0])
			return nil
		}
		table, _ := report.NewTable(results, runIDs...)
		fmt.Print(report.Render(table))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "", "Database path (defaults to TRANSEVAL_DB)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list (0 = all)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyModelCmd)
}
