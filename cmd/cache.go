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
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/store"
)

var (
	cacheDBPath     string
	cacheTranslator string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the translation memory",
	Long: `The translation memory is filled by 'translate --cache'. Entries are kept
per translator, model, prompt style and language pair.`,
}

// withMemory opens the store for the duration of one subcommand.
func withMemory(fn func(ctx context.Context, db *store.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cacheDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(cmd.Context(), db, args)
	}
}

func snippet(text string, limit int) string {
	if r := []rune(text); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}
	return text
}

func writeEntries(out io.Writer, entries []store.MemoryEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTRANSLATOR\tMODEL\tSTYLE\tPAIR\tHITS\tLAST USED\tSTATE\tSOURCE")
	for _, e := range entries {
		state := "active"
		if e.Invalidated {
			state = "invalid"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			e.ID, e.Key.Translator, dash(e.Key.Model), dash(e.Key.Style), e.Key.Pair(),
			e.Hits, e.LastUsed.Local().Format("2006-01-02 15:04"), state, snippet(e.SourceText, 40))
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered translations, most recently used first",
	RunE: withMemory(func(ctx context.Context, db *store.Store, _ []string) error {
		entries, err := db.Entries(ctx, cacheTranslator)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Translation memory is empty.")
			return nil
		}
		return writeEntries(os.Stdout, entries)
	}),
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts and hits per translator",
	RunE: withMemory(func(ctx context.Context, db *store.Store, _ []string) error {
		stats, err := db.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Entries: %d (%d active, %d invalidated), hits: %d\n",
			stats.Entries, stats.Active, stats.Invalidated, stats.Hits)

		names := make([]string, 0, len(stats.PerTranslator))
		for name := range stats.PerTranslator {
			names = append(names, name)
		}
		sort.Strings(names)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range names {
			fmt.Fprintf(w, "  %s\t%d\n", name, stats.PerTranslator[name])
		}
		return w.Flush()
	}),
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <id>",
	Short: "Keep an entry but stop serving it",
	Args:  cobra.ExactArgs(1),
	RunE: withMemory(func(ctx context.Context, db *store.Store, args []string) error {
		if err := db.Invalidate(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Invalidated %s\n", args[0])
		return nil
	}),
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one entry",
	Args:  cobra.ExactArgs(1),
	RunE: withMemory(func(ctx context.Context, db *store.Store, args []string) error {
		if err := db.Forget(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	}),
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry, or those of --translator",
	RunE: withMemory(func(ctx context.Context, db *store.Store, _ []string) error {
		n, err := db.Purge(ctx, cacheTranslator)
		if err != nil {
			return err
		}
		scope := "all translators"
		if cacheTranslator != "" {
			scope = cacheTranslator
		}
		fmt.Printf("Removed %d entries (%s)\n", n, scope)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheDBPath, "db", "", "Database path (defaults to TRANSEVAL_DB)")
	cacheListCmd.Flags().StringVarP(&cacheTranslator, "translator", "T", "", "Only entries of this translator")
	cacheClearCmd.Flags().StringVarP(&cacheTranslator, "translator", "T", "", "Only entries of this translator")

	cacheCmd.AddCommand(cacheListCmd, cacheStatsCmd, cacheInvalidateCmd, cacheDeleteCmd, cacheClearCmd)
}
