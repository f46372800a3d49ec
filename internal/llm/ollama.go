package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaClient implements Client for a local Ollama server
type OllamaClient struct {
	client *api.Client
	config *Config
}

// NewOllamaClient creates a client for the server at config.Host
func NewOllamaClient(config *Config) (*OllamaClient, error) {
	host := config.Host
	if host == "" {
		host = DefaultOllamaHost
	}
	base, err := url.Parse(host)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q", host)
	}

	return &OllamaClient{
		client: api.NewClient(base, http.DefaultClient),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OllamaClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, nil)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, json.RawMessage(`"json"`))
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string, tier ModelTier, format json.RawMessage) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	params := c.config.ParamsFor(tier)
	stream := false
	req := &api.GenerateRequest{
		Model:  modelName,
		Prompt: prompt,
		Stream: &stream,
		Format: format,
		Options: map[string]interface{}{
			"temperature": params.Temperature,
			"top_p":       params.TopP,
		},
	}

	var builder strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		builder.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	output := StripThinking(builder.String())
	if output == "" {
		return "", errors.New("ollama returned empty response")
	}
	return output, nil
}

// GetModel returns the model name for a tier
func (c *OllamaClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op for HTTP based clients
func (c *OllamaClient) Close() error {
	return nil
}
