// Package config loads scorer configuration from defaults, an optional YAML or
// JSON file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-scorer/internal/cache"
	"github.com/jonathan/resume-scorer/internal/github"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/report"
)

// Config is the complete scorer configuration
type Config struct {
	Debug    bool `mapstructure:"debug"`
	JSONLogs bool `mapstructure:"json-logs"`

	LLM        LLMConfig        `mapstructure:"llm"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	Website    WebsiteConfig    `mapstructure:"website"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Output     OutputConfig     `mapstructure:"output"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Server     ServerConfig     `mapstructure:"server"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api-key"`
	Project  string        `mapstructure:"project"`
	Location string        `mapstructure:"location"`
	Host     string        `mapstructure:"host"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ExtractionConfig struct {
	MaxInputChars int `mapstructure:"max-input-chars"`
	MaxPages      int `mapstructure:"max-pages"`
}

type GitHubConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	Token           string  `mapstructure:"token"`
	BaseURL         string  `mapstructure:"base-url"`
	MaxRepos        int     `mapstructure:"max-repos"`
	MinContribution float64 `mapstructure:"min-contribution"`
}

type WebsiteConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Browser   bool          `mapstructure:"browser"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
	// AllowPrivateNetworks lets enrichment fetch loopback and private hosts.
	AllowPrivateNetworks bool `mapstructure:"allow-private-networks"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis-url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type OutputConfig struct {
	Format  string `mapstructure:"format"`
	CSVPath string `mapstructure:"csv-path"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	Migrate bool   `mapstructure:"migrate"`
}

type StorageConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	Region       string `mapstructure:"region"`
	UsePathStyle bool   `mapstructure:"use-path-style"`
}

type ServerConfig struct {
	Port           int   `mapstructure:"port"`
	MaxUploadBytes int64 `mapstructure:"max-upload-bytes"`
}

// envBindings maps configuration keys to the environment variables that
// override them.
var envBindings = map[string][]string{
	"debug":                      {"DEBUG"},
	"llm.provider":               {"LLM_PROVIDER"},
	"llm.model":                  {"LLM_MODEL"},
	"llm.api-key":                {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"llm.project":                {"GOOGLE_CLOUD_PROJECT"},
	"llm.location":               {"GOOGLE_CLOUD_LOCATION"},
	"llm.host":                   {"OLLAMA_HOST"},
	"llm.timeout":                {"LLM_TIMEOUT"},
	"github.token":               {"GITHUB_TOKEN"},
	"github.base-url":            {"GITHUB_API_URL"},
	"website.browser":            {"WEBSITE_BROWSER"},
	"cache.enabled":              {"CACHE_ENABLED"},
	"cache.backend":              {"CACHE_BACKEND"},
	"cache.dir":                  {"CACHE_DIR"},
	"cache.redis-url":            {"REDIS_URL"},
	"output.format":              {"OUTPUT_FORMAT"},
	"output.csv-path":            {"CSV_PATH"},
	"database.url":               {"DATABASE_URL"},
	"storage.endpoint":           {"S3_ENDPOINT"},
	"storage.region":             {"AWS_REGION"},
	"storage.use-path-style":     {"S3_USE_PATH_STYLE"},
	"server.port":                {"PORT"},
	"extraction.max-input-chars": {"MAX_INPUT_CHARS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.location", "us-central1")
	v.SetDefault("llm.host", llm.DefaultOllamaHost)
	v.SetDefault("llm.timeout", llm.DefaultTimeout)

	v.SetDefault("extraction.max-input-chars", 24000)

	v.SetDefault("github.enabled", true)
	v.SetDefault("github.max-repos", github.DefaultMaxRepos)
	v.SetDefault("github.min-contribution", github.DefaultMinContribution)

	v.SetDefault("website.enabled", true)
	v.SetDefault("website.timeout", 15*time.Second)

	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", cache.DefaultOptions().Dir)

	v.SetDefault("output.format", report.FormatText)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max-upload-bytes", 10<<20)
}

// New returns a viper instance with defaults and environment bindings but
// no config file. Callers may bind flags before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		// BindEnv only fails when given no key
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// Load reads path (if set) into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with only defaults and environment applied.
func Default() (*Config, error) {
	return Load(New(), "")
}

// Validate checks enums and numeric ranges.
func (c *Config) Validate() error {
	var errs []error

	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderOllama:
	case llm.ProviderVertex:
		if c.LLM.Project == "" {
			errs = append(errs, errors.New("'llm.project' is required for the vertex provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("'llm.timeout' must be positive"))
	}

	if c.Extraction.MaxInputChars < 0 || c.Extraction.MaxPages < 0 {
		errs = append(errs, errors.New("extraction limits must be non-negative"))
	}

	if c.GitHub.MaxRepos < 0 {
		errs = append(errs, errors.New("'github.max-repos' must be non-negative"))
	}
	if c.GitHub.MinContribution <= 0 || c.GitHub.MinContribution > 1 {
		errs = append(errs, errors.New("'github.min-contribution' must be greater than 0 and at most 1"))
	}

	switch c.Cache.Backend {
	case cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.Enabled && c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("'cache.redis-url' is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}

	switch c.Output.Format {
	case report.FormatText, report.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output.Format))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("'server.port' must be a valid port"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("'server.max-upload-bytes' must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}

// UseLocalFallback switches a Gemini configuration without an API key to
// the local Ollama provider. It reports whether the switch happened.
func (c *Config) UseLocalFallback() bool {
	if llm.Provider(c.LLM.Provider) != llm.ProviderGemini || c.LLM.APIKey != "" {
		return false
	}
	c.LLM.Provider = string(llm.ProviderOllama)
	return true
}

// LLMClientConfig converts the model settings into an llm.Config.
func (c *Config) LLMClientConfig() *llm.Config {
	var out *llm.Config
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderVertex:
		out = llm.DefaultVertexConfig(c.LLM.Project, c.LLM.Location)
	case llm.ProviderOllama:
		out = llm.DefaultOllamaConfig(c.LLM.Host)
	default:
		out = llm.DefaultGeminiConfig()
	}
	if c.LLM.Model != "" {
		out = out.WithModel(c.LLM.Model)
	}
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}
	return out
}

// CacheOptions converts the cache settings.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		TTL:      c.Cache.TTL,
	}
}

// GitHubOptions converts the enrichment settings.
func (c *Config) GitHubOptions() github.Options {
	return github.Options{
		MaxRepos:        c.GitHub.MaxRepos,
		MinContribution: c.GitHub.MinContribution,
	}
}
