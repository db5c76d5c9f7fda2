package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
pipeline:
  max_workers: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.MaxWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Pipeline.MaxWorkers)
	}
	// Unset fields keep their defaults
	if cfg.Pipeline.NonNewsRejectScore != 0.7 {
		t.Errorf("Expected default reject score, got %f", cfg.Pipeline.NonNewsRejectScore)
	}
	if cfg.NLP.Provider != "lexicon" {
		t.Errorf("Expected default NLP provider, got %s", cfg.NLP.Provider)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected a not-found message, got %v", err)
	}
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("SENTINEL_TEST_KEY", "secret-value")

	path := writeConfig(t, `
providers:
  google:
    api_key: ${SENTINEL_TEST_KEY}
    search_engine_id: ${SENTINEL_UNSET_VAR}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Providers.Google.APIKey != "secret-value" {
		t.Errorf("Expected interpolated value, got %q", cfg.Providers.Google.APIKey)
	}
	if cfg.Providers.Google.SearchEngineID != "${SENTINEL_UNSET_VAR}" {
		t.Errorf("Expected unset variable left as-is, got %q", cfg.Providers.Google.SearchEngineID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"no workers", func(c *Config) { c.Pipeline.MaxWorkers = 0 }, true},
		{"threshold out of range", func(c *Config) { c.Pipeline.NewsAcceptScore = 1.5 }, true},
		{"unknown provider", func(c *Config) { c.NLP.Provider = "magic" }, true},
		{"openai without key", func(c *Config) { c.NLP.Provider = "openai" }, true},
		{"openai with key", func(c *Config) {
			c.NLP.Provider = "openai"
			c.NLP.OpenAIAPIKey = "sk-test"
		}, false},
		{"zero timeout", func(c *Config) { c.Providers.TimeoutSeconds = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestGenerateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	if err := GenerateSample(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected the sample to load cleanly, got %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected sample port 8080, got %d", cfg.Server.Port)
	}
}
