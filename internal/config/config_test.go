package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repodigest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REPODIGEST_GITHUB_TOKEN", "ghp_test")
	t.Setenv("REPODIGEST_REPO", "acme/widgets")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Owner())
	assert.Equal(t, "widgets", cfg.Name())
	assert.Equal(t, "widgets", cfg.ProjectName, "project name defaults to the repo name")
	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.LLM.Model)
	assert.Equal(t, 7, cfg.Window.StepDays)
	assert.Equal(t, 7*24*time.Hour, cfg.Window.Step())
	assert.Equal(t, 2, cfg.Window.MinItems)
	assert.Equal(t, 2, cfg.Window.MinEngagements)
	assert.Equal(t, "repodigest-cache.db", cfg.Cache.Path)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("REPODIGEST_GITHUB_TOKEN", "ghp_test")

	path := writeConfigFile(t, `
repo: acme/widgets
project_name: Widgets
category: Digests
llm:
  model: openai/gpt-4o-mini
  api_key_env: MY_LLM_KEY
window:
  step_days: 14
  min_items: 5
cache:
  path: /tmp/widgets-cache.db
  ttl: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Widgets", cfg.ProjectName)
	assert.Equal(t, "Digests", cfg.Category)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 14, cfg.Window.StepDays)
	assert.Equal(t, 5, cfg.Window.MinItems)
	assert.Equal(t, 2, cfg.Window.MinEngagements, "unset file fields keep their defaults")
	assert.Equal(t, "/tmp/widgets-cache.db", cfg.Cache.Path)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	t.Setenv("MY_LLM_KEY", "sk-test")
	assert.Equal(t, "sk-test", cfg.LLM.APIKey())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("REPODIGEST_GITHUB_TOKEN", "ghp_test")
	t.Setenv("REPODIGEST_REPO", "acme/gadgets")
	t.Setenv("REPODIGEST_MODEL", "env/model")
	t.Setenv("REPODIGEST_WINDOW_STEP_DAYS", "3")

	path := writeConfigFile(t, `
repo: acme/widgets
llm:
  model: file/model
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme/gadgets", cfg.Repo)
	assert.Equal(t, "env/model", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Window.StepDays)
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("REPODIGEST_GITHUB_TOKEN", "ghp_test")
	t.Setenv("REPODIGEST_REPO", "acme/widgets")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", cfg.Repo)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			"missing token",
			map[string]string{"REPODIGEST_GITHUB_TOKEN": "", "REPODIGEST_REPO": "acme/widgets"},
			"REPODIGEST_GITHUB_TOKEN",
		},
		{
			"missing repo",
			map[string]string{"REPODIGEST_GITHUB_TOKEN": "ghp_test", "REPODIGEST_REPO": ""},
			"repository not configured",
		},
		{
			"malformed repo",
			map[string]string{"REPODIGEST_GITHUB_TOKEN": "ghp_test", "REPODIGEST_REPO": "just-a-name"},
			"owner/name form",
		},
		{
			"step days below one",
			map[string]string{"REPODIGEST_GITHUB_TOKEN": "ghp_test", "REPODIGEST_REPO": "acme/widgets", "REPODIGEST_WINDOW_STEP_DAYS": "0"},
			"step_days",
		},
		{
			"step days not a number",
			map[string]string{"REPODIGEST_GITHUB_TOKEN": "ghp_test", "REPODIGEST_REPO": "acme/widgets", "REPODIGEST_WINDOW_STEP_DAYS": "seven"},
			"REPODIGEST_WINDOW_STEP_DAYS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Setenv("REPODIGEST_GITHUB_TOKEN", "ghp_test")

	path := writeConfigFile(t, "repo: [unclosed")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config file")
}
