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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/valpere/transeval/internal/config"
	"github.com/valpere/transeval/internal/logging"
)

var version = "0.1.0"

var (
	envFile  string
	logLevel string

	env    *config.Env
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "transeval",
	Short: "Translate text and evaluate translation backends",
	Long: `A CLI application that translates text through local seq2seq models, local and
remote LLMs, and machine translation APIs, and scores those backends against
reference translations with BLEU and METEOR.

Use "transeval list" to see translators, prompt styles and sweep models.
Use "transeval eval --help" to score translators on a parallel corpus.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		l, err := logging.New(cfg.Environment, cfg.LogLevel)
		if err != nil {
			return err
		}
		env, logger = cfg, l
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to the .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (overrides LOG_LEVEL)")
}
