// Package config reads process settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// CI disables registry entries that need a local daemon.
	CI bool `envconfig:"CI" default:"false"`

	OllamaURL        string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `envconfig:"OPENAI_BASE_URL"`
	OpenRouterAPIKey string `envconfig:"OPENROUTER_API_KEY"`
	GeminiAPIKey     string `envconfig:"GEMINI_API_KEY"`
	GoogleCredFile   string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	MyMemoryEmail    string `envconfig:"MYMEMORY_EMAIL"`
	InferenceURL     string `envconfig:"INFERENCE_URL" default:"http://localhost:8089"`

	DBPath string `envconfig:"TRANSEVAL_DB" default:"transeval.db"`
}

// Load reads envFile when it exists, then the process environment. Variables
// already set in the environment win over the file.
func Load(envFile string) (*Env, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Env
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Env) Validate() error {
	for name, raw := range map[string]string{
		"OLLAMA_URL":      c.OllamaURL,
		"OPENAI_BASE_URL": c.OpenAIBaseURL,
		"INFERENCE_URL":   c.InferenceURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("TRANSEVAL_DB must not be empty")
	}
	return nil
}
