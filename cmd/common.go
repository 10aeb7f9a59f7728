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
	"strings"

	"github.com/valpere/transeval/internal/backend"
	"github.com/valpere/transeval/internal/registry"
	"github.com/valpere/transeval/internal/store"
)

// buildDependencies constructs the backend clients from the environment.
// Clients needing credentials are left nil when none are configured.
func buildDependencies() registry.Dependencies {
	deps := registry.Dependencies{
		Ollama:   backend.NewOllama(env.OllamaURL),
		Google:   backend.NewGoogle(env.GoogleCredFile),
		MyMemory: backend.NewMyMemory(env.MyMemoryEmail, ""),
		Seq2Seq: func(modelID string) (backend.Seq2SeqModel, error) {
			return backend.NewInference(env.InferenceURL, modelID), nil
		},
	}
	if env.OpenAIAPIKey != "" {
		deps.OpenAI = backend.NewOpenAI(env.OpenAIAPIKey, env.OpenAIBaseURL)
	}
	if env.OpenRouterAPIKey != "" {
		deps.OpenRouter = backend.NewOpenRouter(env.OpenRouterAPIKey, "")
	}
	if env.GeminiAPIKey != "" {
		deps.Gemini = backend.NewGemini(env.GeminiAPIKey, "")
	}
	return deps
}

// newRegistry returns the standard translator table. Daemon-backed entries
// are removed when running under CI.
func newRegistry() *registry.Registry {
	reg := registry.New(buildDependencies())
	if env.CI {
		logger.Debug().Strs("disabled", registry.DaemonBackends).Msg("CI set; daemon backends disabled")
		reg.DisableDaemonBackends()
	}
	return reg
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		path = env.DBPath
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// factoryOptions merges typed flags with --opt key=value pairs. Only flags the
// user set are passed so translators keep their own defaults.
func factoryOptions(flagged map[string]string, pairs []string) ([]registry.Option, error) {
	kv, err := registry.ParsePairs(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range flagged {
		kv[k] = v
	}
	return registry.ParseOptions(kv)
}

// parseModelSpec parses "name=translator[:key=value,...]" as used by eval.
func parseModelSpec(spec string) (name, translatorName string, opts []string, err error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || strings.Contains(name, ":") {
		name, rest = "", spec
	}
	name, rest = strings.TrimSpace(name), strings.TrimSpace(rest)
	translatorName, optList, _ := strings.Cut(rest, ":")
	translatorName = strings.TrimSpace(translatorName)
	if name == "" {
		name = translatorName
	}
	if translatorName == "" {
		return "", "", nil, fmt.Errorf("model spec %q must look like name=translator[:key=value,...]", spec)
	}
	if optList != "" {
		opts = strings.Split(optList, ",")
	}
	return name, translatorName, opts, nil
}
