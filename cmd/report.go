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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/report"
)

var (
	mergeSuffix string
	mergeOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with saved evaluation reports",
}

var reportMergeCmd = &cobra.Command{
	Use:   "merge <dir>",
	Short: "Merge CSV reports from a directory into one table",
	Long: `Load every CSV report in <dir> whose name ends in --suffix and print them as one
table. Rows are prefixed with the report name, e.g. "de-en/nllb" for
de-en_report.csv. Use --output to write the merged table instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := report.LoadDir(args[0], mergeSuffix)
		if err != nil {
			return err
		}
		if mergeOutput == "" {
			fmt.Print(report.Render(table))
			return nil
		}
		if err := report.WriteFile(mergeOutput, table); err != nil {
			return err
		}
		fmt.Printf("Merged %d rows into %s\n", len(table.Rows), mergeOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportMergeCmd)

	reportMergeCmd.Flags().StringVar(&mergeSuffix, "suffix", report.DefaultSuffix, "Report file name suffix")
	reportMergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Write the merged table to a file (.md or .html, otherwise CSV)")
}
