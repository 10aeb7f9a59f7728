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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/chunker"
	"github.com/valpere/transeval/internal/registry"
	"github.com/valpere/transeval/internal/translator"
)

var (
	translatorName string
	inputFile      string
	outputFile     string
	sourceLang     string
	targetLang     string
	modelName      string
	promptType     string
	customPrompt   string
	temperature    float64
	maxTokens      int
	device         string
	maxLength      int
	numBeams       int
	extraOpts      []string

	useCache       bool
	dbPath         string
	fuzzyThreshold float64
	splitLines     bool
	chunkSize      int
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text with one translator",
	Long: `Translate text given as arguments or read from --input with the translator
selected by --translator.

Available translators: ollama, gpt, gemini, openrouter, google, mymemory,
mbart, m2m100, nllb, marian, t5.

Translator options can be set with the dedicated flags or as --opt key=value.
Use --lines to translate every non-empty input line as one batch, or --chunk
to split long documents at paragraph and sentence boundaries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text := strings.Join(args, " ")
		if inputFile != "" {
			raw, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(raw)
		}

		opts, err := factoryOptions(changedOptions(cmd), extraOpts)
		if err != nil {
			return err
		}

		tr, err := newRegistry().Create(translatorName, opts...)
		if err != nil {
			return err
		}

		if useCache {
			db, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			tr = translator.NewCached(tr, db,
				translator.WithFuzzyThreshold(fuzzyThreshold),
				translator.WithCacheLogger(logger))
		}

		ctx := context.Background()
		var result string
		switch chunks := chunker.Split(text, chunkSize); {
		case splitLines:
			out, err := tr.TranslateBatch(ctx, nonEmptyLines(text))
			if err != nil {
				return err
			}
			result = strings.Join(out, "\n")
		case len(chunks) > 1:
			logger.Debug().Int("chunks", len(chunks)).Msg("translating in chunks")
			out, err := tr.TranslateBatch(ctx, chunker.Texts(chunks))
			if err != nil {
				return err
			}
			result = chunker.Join(chunks, out)
		default:
			result, err = tr.Translate(ctx, text)
			if err != nil {
				return err
			}
		}

		logger.Info().
			Str("translator", tr.Name()).
			Str("source", displaySource(tr.SourceLang())).
			Str("target", tr.TargetLang()).
			Msg("translation complete")

		if outputFile == "" {
			fmt.Println(result)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outputFile, []byte(result), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Successfully translated %s to %s with %s\n", displaySource(tr.SourceLang()), tr.TargetLang(), tr.Name())
		return nil
	},
}

// changedOptions returns factory options for the typed flags the user set.
func changedOptions(cmd *cobra.Command) map[string]string {
	flagKeys := map[string]string{
		"source":        registry.KeySourceLang,
		"target":        registry.KeyTargetLang,
		"model":         registry.KeyModelName,
		"prompt":        registry.KeyPromptType,
		"custom-prompt": registry.KeyCustomPrompt,
		"temperature":   registry.KeyTemperature,
		"max-tokens":    registry.KeyMaxTokens,
		"device":        registry.KeyDevice,
		"max-length":    registry.KeyMaxLength,
		"num-beams":     registry.KeyNumBeams,
	}
	values := map[string]func() string{
		"source":        func() string { return sourceLang },
		"target":        func() string { return targetLang },
		"model":         func() string { return modelName },
		"prompt":        func() string { return promptType },
		"custom-prompt": func() string { return customPrompt },
		"temperature":   func() string { return strconv.FormatFloat(temperature, 'f', -1, 64) },
		"max-tokens":    func() string { return strconv.Itoa(maxTokens) },
		"device":        func() string { return device },
		"max-length":    func() string { return strconv.Itoa(maxLength) },
		"num-beams":     func() string { return strconv.Itoa(numBeams) },
	}

	out := make(map[string]string)
	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			out[key] = values[flag]()
		}
	}
	return out
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func displaySource(code string) string {
	if code == "" {
		return "auto"
	}
	return code
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&translatorName, "translator", "T", "nllb", "Translator to use")
	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (stdout if empty)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code (detected if empty)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().StringVarP(&modelName, "model", "m", "", "Model name for LLM translators")
	translateCmd.Flags().StringVarP(&promptType, "prompt", "p", "default", "Prompt style for LLM translators")
	translateCmd.Flags().StringVar(&customPrompt, "custom-prompt", "", "Directive for the custom prompt style")
	translateCmd.Flags().Float64Var(&temperature, "temperature", registry.DefaultTemperature, "Sampling temperature (0-1)")
	translateCmd.Flags().IntVar(&maxTokens, "max-tokens", registry.DefaultMaxTokens, "Maximum tokens to generate")
	translateCmd.Flags().StringVar(&device, "device", translator.DeviceCPU, "Device for seq2seq models (cpu, accelerator)")
	translateCmd.Flags().IntVar(&maxLength, "max-length", registry.DefaultMaxLength, "Maximum output length for seq2seq models")
	translateCmd.Flags().IntVar(&numBeams, "num-beams", registry.DefaultNumBeams, "Beam width for seq2seq models")
	translateCmd.Flags().StringArrayVar(&extraOpts, "opt", nil, "Extra translator option as key=value (repeatable)")

	translateCmd.Flags().BoolVar(&useCache, "cache", false, "Use the translation memory")
	translateCmd.Flags().StringVar(&dbPath, "db", "", "Database path (defaults to TRANSEVAL_DB)")
	translateCmd.Flags().Float64Var(&fuzzyThreshold, "fuzzy", 0, "Fuzzy translation memory threshold (0 disables)")
	translateCmd.Flags().BoolVar(&splitLines, "lines", false, "Translate each non-empty line separately")
	translateCmd.Flags().IntVar(&chunkSize, "chunk", 0, "Split input into chunks of at most this many characters (0 disables)")

	translateCmd.MarkFlagRequired("target")
}
