package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/llm"
)

// clearEnv blanks every bound variable so the host environment cannot leak
// into a test. Empty variables are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultTimeout, cfg.LLM.Timeout)
	assert.Equal(t, 100, cfg.GitHub.MaxRepos)
	assert.Equal(t, 0.2, cfg.GitHub.MinContribution)
	assert.True(t, cfg.GitHub.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, "cache", cfg.Cache.Dir)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "scorer.yaml", `
llm:
  provider: ollama
  model: qwen3:4b
  timeout: 45s
github:
  max-repos: 30
  min-contribution: 0.5
cache:
  enabled: true
  dir: /tmp/scorer-cache
output:
  format: json
  csv-path: results.csv
`)

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 30, cfg.GitHub.MaxRepos)
	assert.Equal(t, 0.5, cfg.GitHub.MinContribution)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/scorer-cache", cfg.Cache.Dir)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "results.csv", cfg.Output.CSVPath)

	llmCfg := cfg.LLMClientConfig()
	assert.Equal(t, llm.ProviderOllama, llmCfg.Provider)
	assert.Equal(t, "qwen3:4b", llmCfg.GetModel(llm.TierAdvanced))
	assert.Equal(t, 45*time.Second, llmCfg.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "scorer.json", `{"cache": {"backend": "file"}, "llm": {"provider": "gemini"}}`)
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("CSV_PATH", "out.csv")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.CacheOptions().RedisURL)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "ghp_x", cfg.GitHub.Token)
	assert.Equal(t, "out.csv", cfg.Output.CSVPath)
	assert.Equal(t, "http://localhost:9000", cfg.Storage.Endpoint)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(New(), "/nonexistent/scorer.yaml")
	assert.ErrorContains(t, err, "failed to read config file")

	bad := writeFile(t, "bad.yaml", "llm:\n  provider: openai\n")
	_, err = Load(New(), bad)
	assert.ErrorContains(t, err, `unknown llm provider "openai"`)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"vertex without project", func(c *Config) { c.LLM.Provider = "vertex" }, "llm.project"},
		{"zero timeout", func(c *Config) { c.LLM.Timeout = 0 }, "llm.timeout"},
		{"contribution above one", func(c *Config) { c.GitHub.MinContribution = 1.5 }, "min-contribution"},
		{"zero contribution", func(c *Config) { c.GitHub.MinContribution = 0 }, "must be greater than 0"},
		{"redis without url", func(c *Config) { c.Cache.Enabled = true; c.Cache.Backend = "redis" }, "redis-url"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown cache backend"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "unknown output format"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUseLocalFallback(t *testing.T) {
	clearEnv(t)

	cfg, err := Default()
	require.NoError(t, err)
	assert.True(t, cfg.UseLocalFallback())
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultOllamaHost, cfg.LLMClientConfig().Host)

	cfg, err = Default()
	require.NoError(t, err)
	cfg.LLM.APIKey = "key"
	assert.False(t, cfg.UseLocalFallback())
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}
