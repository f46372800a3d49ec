package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/assembly"
	"github.com/jonathan/resume-scorer/internal/cache"
	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/document"
	"github.com/jonathan/resume-scorer/internal/evaluation"
	"github.com/jonathan/resume-scorer/internal/extraction"
	"github.com/jonathan/resume-scorer/internal/github"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/logger"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/source"
	"github.com/jonathan/resume-scorer/internal/website"
)

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"debug":     "debug",
	"json-logs": "json-logs",
	"format":    "output.format",
	"cache":     "cache.enabled",
	"csv":       "output.csv-path",
}

// app holds the resources shared by every command. Close releases them.
type app struct {
	cfg *config.Config
	log *zap.Logger

	llm   llm.Client
	cache cache.Cache
	store *db.DB
}

// loadConfig merges defaults, the config file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	return config.Load(v, configPath)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &app{cfg: cfg, log: log}, nil
}

// Close releases clients and flushes the logger.
func (a *app) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			a.log.Debug("failed to close model client", zap.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Debug("failed to close cache", zap.Error(err))
		}
	}
	if a.store != nil {
		a.store.Close()
	}
	_ = a.log.Sync()
}

// model returns the model client, falling back from Gemini to a local
// Ollama server when no API key is set.
func (a *app) model(ctx context.Context) (llm.Client, error) {
	if a.llm != nil {
		return a.llm, nil
	}
	if a.cfg.UseLocalFallback() {
		a.log.Warn("GEMINI_API_KEY is not set, falling back to local Ollama",
			zap.String("host", a.cfg.LLM.Host))
	}
	llmCfg := a.cfg.LLMClientConfig()
	client, err := llm.NewClient(ctx, llmCfg, a.cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", llmCfg.Provider, err)
	}
	a.log.Debug("model client ready",
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("model", client.GetModel(llm.TierAdvanced)))
	a.llm = client
	return client, nil
}

func (a *app) githubEnricher(client llm.Client) (*github.Enricher, error) {
	gh, err := github.NewClient(github.ClientOptions{
		Token:   a.cfg.GitHub.Token,
		BaseURL: a.cfg.GitHub.BaseURL,
		Logger:  a.log,
	})
	if err != nil {
		return nil, err
	}
	return github.NewEnricher(gh, client, a.log, a.cfg.GitHubOptions()), nil
}

// loader resolves local paths and s3:// URLs. The S3 client is only built
// for s3:// references.
func (a *app) loader(ctx context.Context, ref string) (source.Loader, error) {
	router := &source.Router{}
	if source.IsS3(ref) {
		s3, err := source.NewS3Loader(ctx, source.S3Options{
			Region:       a.cfg.Storage.Region,
			Endpoint:     a.cfg.Storage.Endpoint,
			UsePathStyle: a.cfg.Storage.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		router.S3 = s3
	}
	return router, nil
}

// openStore connects to PostgreSQL when a database URL is configured.
func (a *app) openStore(ctx context.Context) (*db.DB, error) {
	if a.cfg.Database.URL == "" {
		return nil, nil
	}
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.Connect(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if a.cfg.Database.Migrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	a.store = store
	return store, nil
}

func (a *app) converter() *document.Converter {
	return document.NewConverter(document.Options{MaxPages: a.cfg.Extraction.MaxPages})
}

// pipeline wires every stage from configuration.
func (a *app) pipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	client, err := a.model(ctx)
	if err != nil {
		return nil, err
	}

	stages := pipeline.Stages{
		Converter: a.converter(),
		Extractor: extraction.New(client, a.log, extraction.Options{MaxInputChars: a.cfg.Extraction.MaxInputChars}),
		Assembler: assembly.New(a.log),
		Evaluator: evaluation.New(client, a.log),
	}

	if a.cfg.GitHub.Enabled {
		enricher, err := a.githubEnricher(client)
		if err != nil {
			return nil, err
		}
		stages.GitHub = enricher
	}

	if a.cfg.Website.Enabled {
		opts := website.Options{
			Timeout:              a.cfg.Website.Timeout,
			UserAgent:            a.cfg.Website.UserAgent,
			AllowPrivateNetworks: a.cfg.Website.AllowPrivateNetworks,
		}
		if a.cfg.Website.Browser {
			opts.Renderer = website.ChromeRenderer(a.cfg.Website.Timeout)
		}
		stages.Website = website.NewFetcher(a.log, opts)
	}

	opts := pipeline.Options{CacheTTL: a.cfg.Cache.TTL}
	if a.cfg.Cache.Enabled {
		c, err := cache.New(a.cfg.CacheOptions())
		if err != nil {
			return nil, err
		}
		a.cache = c
		opts.Cache = c
	}
	if a.cfg.Debug {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			a.log.Debug("stage complete", zap.String("step", e.Step), zap.String("message", e.Message), zap.Bool("cached", e.Cached))
		}
	}

	return pipeline.New(stages, a.log, opts), nil
}
