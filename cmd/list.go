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
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/prompt"
	"github.com/valpere/transeval/internal/sweep"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List translators, prompt styles and sweep models",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TRANSLATOR\tOPTIONS")
		for _, name := range reg.Names() {
			keys, err := reg.Accepts(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(keys, ", "))
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "PROMPT STYLE\tDESCRIPTION")
		for _, s := range prompt.Styles() {
			fmt.Fprintf(w, "%s\t%s\n", s.Code, s.Description)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "SWEEP MODEL")
		for _, key := range sweep.StandardModels(reg).Keys() {
			fmt.Fprintln(w, key)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
