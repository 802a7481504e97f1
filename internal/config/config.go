// Package config loads application configuration from an optional YAML file
// and environment variables. Environment variables win over file values;
// secrets are only ever read from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Repo is the target repository in owner/name form.
	Repo string `yaml:"repo"`
	// ProjectName is the human name used in report titles and the prompt.
	// Defaults to the repository name.
	ProjectName string `yaml:"project_name"`
	// Category is the discussion category digests are posted to and
	// recovered from. Empty disables continuation and posting.
	Category string `yaml:"category"`

	GitHubToken string `yaml:"-"` // REPODIGEST_GITHUB_TOKEN only, never from file

	LLM    LLM    `yaml:"llm"`
	Window Window `yaml:"window"`
	Cache  Cache  `yaml:"cache"`
}

// LLM configures the summarization provider.
type LLM struct {
	Model string `yaml:"model"`
	// BaseURL overrides the OpenRouter endpoint, e.g. for a local proxy.
	BaseURL string `yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// APIKey resolves the provider API key from the environment.
func (l LLM) APIKey() string {
	return os.Getenv(l.APIKeyEnv)
}

// Window configures the adaptive window policy.
type Window struct {
	StepDays       int `yaml:"step_days"`
	MinItems       int `yaml:"min_items"`
	MinEngagements int `yaml:"min_engagements"`
}

// Step returns the window expansion step as a duration.
func (w Window) Step() time.Duration {
	return time.Duration(w.StepDays) * 24 * time.Hour
}

// Cache configures the optional persistent query cache.
type Cache struct {
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// defaults returns a Config populated with default values, applied before
// the file and environment are read.
func defaults() *Config {
	return &Config{
		LLM: LLM{
			Model:     "anthropic/claude-3.5-sonnet",
			APIKeyEnv: "OPENROUTER_API_KEY",
		},
		Window: Window{
			StepDays:       7,
			MinItems:       2,
			MinEngagements: 2,
		},
		Cache: Cache{
			Path: "repodigest-cache.db",
			TTL:  24 * time.Hour,
		},
	}
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty or the file does not exist), applies environment overrides, and
// validates the result. REPODIGEST_GITHUB_TOKEN and REPODIGEST_REPO are
// required.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to environment-only configuration.
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.GitHubToken == "" {
		return nil, fmt.Errorf("REPODIGEST_GITHUB_TOKEN is required")
	}
	if cfg.Repo == "" {
		return nil, fmt.Errorf("repository not configured: set repo in the config file or REPODIGEST_REPO")
	}
	owner, name, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repository %q is not in owner/name form", cfg.Repo)
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = name
	}
	if cfg.Window.StepDays < 1 {
		return nil, fmt.Errorf("window.step_days must be at least 1, got %d", cfg.Window.StepDays)
	}

	return cfg, nil
}

// applyEnv overlays REPODIGEST_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	cfg.GitHubToken = os.Getenv("REPODIGEST_GITHUB_TOKEN")

	if v, ok := os.LookupEnv("REPODIGEST_REPO"); ok {
		cfg.Repo = v
	}
	if v, ok := os.LookupEnv("REPODIGEST_PROJECT_NAME"); ok {
		cfg.ProjectName = v
	}
	if v, ok := os.LookupEnv("REPODIGEST_CATEGORY"); ok {
		cfg.Category = v
	}
	if v, ok := os.LookupEnv("REPODIGEST_MODEL"); ok {
		cfg.LLM.Model = v
	}
	if v, ok := os.LookupEnv("REPODIGEST_WINDOW_STEP_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPODIGEST_WINDOW_STEP_DAYS %q: %w", v, err)
		}
		cfg.Window.StepDays = days
	}
	if v, ok := os.LookupEnv("REPODIGEST_CACHE_PATH"); ok {
		cfg.Cache.Path = v
	}
	return nil
}

// Owner and Name split the owner/name repository string. Load guarantees
// the form is valid.
func (c *Config) Owner() string {
	owner, _, _ := strings.Cut(c.Repo, "/")
	return owner
}

func (c *Config) Name() string {
	_, name, _ := strings.Cut(c.Repo, "/")
	return name
}
