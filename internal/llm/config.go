// Package llm provides centralized LLM configuration and client abstractions.
// Every provider is reduced to one capability: produce a completion for a prompt.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: repository selection
	TierLite ModelTier = "lite"
	// TierStandard is for structured extraction of resume sections
	TierStandard ModelTier = "standard"
	// TierAdvanced is for rubric evaluation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the hosted Gemini API (API key)
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Gemini served through Vertex AI (project credentials)
	ProviderVertex Provider = "vertex"
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 120 * time.Second

// DefaultOllamaHost is where a local Ollama server listens.
const DefaultOllamaHost = "http://localhost:11434"

// Params are sampling parameters for a model call
type Params struct {
	Temperature float32
	TopP        float32
}

// DefaultParams is used for models without a tuned entry.
var DefaultParams = Params{Temperature: 0.1, TopP: 0.4}

// KnownModelParams holds sampling parameters tuned per local model.
var KnownModelParams = map[string]Params{
	"qwen3:1.7b": {Temperature: 0.0, TopP: 0.9},
	"gemma3:1b":  {Temperature: 0.0, TopP: 0.9},
	"qwen3:4b":   {Temperature: 0.1, TopP: 0.4},
	"gemma3:4b":  {Temperature: 0.1, TopP: 0.4},
	"mistral:7b": {Temperature: 0.0, TopP: 0.9},
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// TierParams overrides sampling parameters for a tier regardless of model.
	TierParams map[ModelTier]Params
	Timeout    time.Duration

	// Vertex AI
	Project  string
	Location string

	// Ollama
	Host string
}

// evaluationParams raise temperature slightly for rubric reasoning.
var evaluationParams = Params{Temperature: 0.2, TopP: 0.9}

// DefaultConfig returns the default configuration (Gemini API)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-flash",
		},
		TierParams: map[ModelTier]Params{TierAdvanced: evaluationParams},
		Timeout:    DefaultTimeout,
	}
}

// DefaultVertexConfig returns the default Vertex AI configuration
func DefaultVertexConfig(project, location string) *Config {
	cfg := DefaultGeminiConfig()
	cfg.Provider = ProviderVertex
	cfg.Project = project
	cfg.Location = location
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	return cfg
}

// DefaultOllamaConfig returns the default local model configuration
func DefaultOllamaConfig(host string) *Config {
	if host == "" {
		host = DefaultOllamaHost
	}
	return &Config{
		Provider: ProviderOllama,
		Models: map[ModelTier]string{
			TierLite:     "gemma3:4b",
			TierStandard: "gemma3:4b",
			TierAdvanced: "gemma3:4b",
		},
		TierParams: map[ModelTier]Params{TierAdvanced: evaluationParams},
		Timeout:    DefaultTimeout,
		Host:       host,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// ParamsFor returns sampling parameters for a tier: tier override, then the
// tuned model entry, then DefaultParams.
func (c *Config) ParamsFor(tier ModelTier) Params {
	if p, ok := c.TierParams[tier]; ok {
		return p
	}
	if p, ok := KnownModelParams[c.GetModel(tier)]; ok {
		return p
	}
	return DefaultParams
}

// WithModel returns a copy of the config using model for every tier.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Models = map[ModelTier]string{
		TierLite:     model,
		TierStandard: model,
		TierAdvanced: model,
	}
	out.TierParams = make(map[ModelTier]Params, len(c.TierParams))
	for k, v := range c.TierParams {
		out.TierParams[k] = v
	}
	return &out
}
