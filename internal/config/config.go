// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/matching"
)

// DefaultTaxonomyDir is where the bundled skill taxonomy lives.
const DefaultTaxonomyDir = "data/esco_taxonomy"

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume string `json:"resume,omitempty"`  // Path to resume file (.txt or .pdf)
	Job    string `json:"job,omitempty"`     // Path to job posting text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch job posting from

	// Providers
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	GeminiModel    string `json:"gemini_model,omitempty"`    // Gemini model name
	OllamaModel    string `json:"ollama_model,omitempty"`    // Ollama model name
	OllamaBaseURL  string `json:"ollama_base_url,omitempty"` // Ollama server base URL
	EmbeddingModel string `json:"embedding_model,omitempty"` // Gemini embedding model name

	// Scoring
	TaxonomyDir string            `json:"taxonomy_dir,omitempty"` // Directory with skills.csv and skill_synonyms.csv
	Weights     *matching.Weights `json:"weights,omitempty"`      // Sub-score weights; must sum to 1.0

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty disables persistence

	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP listen address, e.g. ":8080"

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA job boards
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnvironment fills empty credential and connection fields from the
// environment: GEMINI_API_KEY, DATABASE_URL and OLLAMA_BASE_URL.
func (c *Config) ApplyEnvironment() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.OllamaBaseURL == "" {
		c.OllamaBaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.OllamaModel == "" {
		result.OllamaModel = defaults.OllamaModel
	}
	if result.OllamaBaseURL == "" {
		result.OllamaBaseURL = defaults.OllamaBaseURL
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.TaxonomyDir == "" {
		result.TaxonomyDir = defaults.TaxonomyDir
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.Weights == nil {
		result.Weights = defaults.Weights
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig builds the provider chain configuration. Gemini leads when an
// API key is present; Ollama is always the local fallback.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig(c.APIKey)
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		switch p.Provider {
		case llm.ProviderGemini:
			if c.GeminiModel != "" {
				p.Model = c.GeminiModel
			}
		case llm.ProviderOllama:
			if c.OllamaModel != "" {
				p.Model = c.OllamaModel
			}
			if c.OllamaBaseURL != "" {
				p.BaseURL = c.OllamaBaseURL
			}
		}
	}
	if c.APIKey == "" {
		// Without a key the Gemini provider can only fail; skip straight
		// to the local provider.
		cfg.Providers = cfg.Providers[1:]
	}
	if c.EmbeddingModel != "" {
		cfg.EmbeddingModel = c.EmbeddingModel
	}
	return cfg
}

// TaxonomyPath returns the configured taxonomy directory or the bundled
// default.
func (c *Config) TaxonomyPath() string {
	if c.TaxonomyDir != "" {
		return c.TaxonomyDir
	}
	return DefaultTaxonomyDir
}

// MatchWeights returns the configured scoring weights, falling back to the
// standard weighting when none are set.
func (c *Config) MatchWeights() matching.Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return matching.DefaultWeights()
}
