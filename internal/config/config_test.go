package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("CI", "")
	os.Unsetenv("OLLAMA_URL")
	os.Unsetenv("CI")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OllamaURL != "http://localhost:11434" || cfg.CI || cfg.DBPath != "transeval.db" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	t.Setenv("CI", "true")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY=from-file\nCI=false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GeminiAPIKey != "from-file" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if !cfg.CI {
		t.Error("process environment must win over the .env file")
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     Env
		wantErr string
	}{
		{"ok", Env{OllamaURL: "http://localhost:11434", DBPath: "x.db"}, ""},
		{"relative url", Env{OllamaURL: "localhost:11434", DBPath: "x.db"}, "OLLAMA_URL"},
		{"empty db", Env{DBPath: " "}, "TRANSEVAL_DB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
