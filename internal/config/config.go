// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Providers  Providers  `yaml:"providers"`
	NLP        NLP        `yaml:"nlp"`
	Pipeline   Pipeline   `yaml:"pipeline"`
	RateLimits RateLimits `yaml:"rate_limits"`
	Logging    Logging    `yaml:"logging"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Database struct {
	Path string `yaml:"path"`
}

// Providers configures the outbound evidence services. With no Google
// credentials the search side falls back to DuckDuckGo and the fact-check
// side is disabled.
type Providers struct {
	Google         Google  `yaml:"google"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	CacheTTLMin    int     `yaml:"cache_ttl_minutes"`
	RequestsPerSec float64 `yaml:"requests_per_second"`
	Burst          int     `yaml:"burst"`
}

type Google struct {
	APIKey         string `yaml:"api_key"`
	SearchEngineID string `yaml:"search_engine_id"`
}

// NLP configures sentiment analysis and language detection. The lexicon
// analyzer needs no credentials; setting an OpenAI key switches sentiment to
// the model-backed analyzer.
type NLP struct {
	Provider     string `yaml:"provider"` // lexicon, openai
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`
}

// Pipeline holds the decision thresholds of the analysis stages. These are
// empirically tuned values, not load-bearing invariants; defaults match the
// shipped behavior.
type Pipeline struct {
	NonNewsRejectScore  float64 `yaml:"non_news_reject_score"`  // classifier rejects above this
	NewsAcceptScore     float64 `yaml:"news_accept_score"`      // classifier accepts at or above this
	TopicMergeThreshold float64 `yaml:"topic_merge_threshold"`  // segment merge / single-topic cutoff
	RelevanceThreshold  float64 `yaml:"relevance_threshold"`    // evidence source kept above this
	MaxWorkers          int     `yaml:"max_workers"`            // concurrent claim evaluations
	InappropriateScreen bool    `yaml:"inappropriate_screen"`   // keyword screen before extraction
}

type RateLimits struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			Port: 8080,
		},
		Database: Database{
			Path: "./data/sentinel.db",
		},
		Providers: Providers{
			TimeoutSeconds: 15,
			CacheTTLMin:    30,
			RequestsPerSec: 2,
			Burst:          5,
		},
		NLP: NLP{
			Provider:    "lexicon",
			OpenAIModel: "gpt-4o-mini",
		},
		Pipeline: Pipeline{
			NonNewsRejectScore:  0.7,
			NewsAcceptScore:     0.15,
			TopicMergeThreshold: 0.3,
			RelevanceThreshold:  0.15,
			MaxWorkers:          5,
			InappropriateScreen: true,
		},
		RateLimits: RateLimits{
			RequestsPerMinute: 60,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Sentinel Configuration
# See documentation for all options

server:
  port: 8080

database:
  path: ./data/sentinel.db

providers:
  google:
    api_key: ${GOOGLE_API_KEY}
    search_engine_id: ${GOOGLE_CX_ID}
  timeout_seconds: 15
  cache_ttl_minutes: 30
  requests_per_second: 2
  burst: 5

nlp:
  provider: lexicon  # lexicon or openai
  # openai_api_key: ${OPENAI_API_KEY}
  # openai_model: gpt-4o-mini

pipeline:
  non_news_reject_score: 0.7
  news_accept_score: 0.15
  topic_merge_threshold: 0.3
  relevance_threshold: 0.15
  max_workers: 5
  inappropriate_screen: true

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Pipeline.MaxWorkers < 1 {
		return fmt.Errorf("pipeline.max_workers must be at least 1")
	}

	for name, v := range map[string]float64{
		"non_news_reject_score": c.Pipeline.NonNewsRejectScore,
		"news_accept_score":     c.Pipeline.NewsAcceptScore,
		"topic_merge_threshold": c.Pipeline.TopicMergeThreshold,
		"relevance_threshold":   c.Pipeline.RelevanceThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("pipeline.%s must be in [0, 1], got %v", name, v)
		}
	}

	switch c.NLP.Provider {
	case "lexicon":
	case "openai":
		if c.NLP.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required for the openai NLP provider")
		}
	default:
		return fmt.Errorf("unsupported NLP provider: %s", c.NLP.Provider)
	}

	if c.Providers.TimeoutSeconds < 1 {
		return fmt.Errorf("providers.timeout_seconds must be at least 1")
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
