package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/askme/internal/ai"
	"github.com/spigell/askme/internal/ai/deepseek"
	"github.com/spigell/askme/internal/ai/gemini"
	"github.com/spigell/askme/internal/learned"
	"github.com/spigell/askme/internal/logger"
	"github.com/spigell/askme/internal/profile"
	"github.com/spigell/askme/internal/resolver"
	"github.com/spigell/askme/internal/secrets"
	"github.com/spigell/askme/internal/storage"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// application is everything a command needs to answer questions.
type application struct {
	config     *Config
	logger     *zap.Logger
	store      storage.Store
	resolver   *resolver.Resolver
	adminToken string
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return logger
}

// newApplication wires the resolver from the configuration. Missing optional
// parts (store, provider, admin token) are logged and left out.
func newApplication(ctx context.Context, logger *zap.Logger) (*application, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	p := profile.Load(config.Profile, logger)

	store, err := storage.Open(ctx, *config.Storage)
	if err != nil {
		logger.Warn("running without durable store", zap.Error(err))
		store = nil
	}
	if store == nil && err == nil {
		logger.Warn("running without durable store",
			zap.String("hint", "set storage.driver to sqlite or postgres to keep learned answers"),
		)
	}

	var cacheStore learned.Store
	if store != nil {
		cacheStore = store
	}

	cache := learned.NewCache(cacheStore, logger)
	if err := cache.Reload(ctx); err != nil {
		logger.Error("loading learned answers", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping generative answers", zap.Error(err))
		generator = nil
	}

	adminToken, err := secrets.Optional(secrets.Source{
		Name:  "admin token",
		Value: config.Admin.Token,
		File:  config.Admin.TokenFile,
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	r := resolver.New(cache, p, generator, logger, resolver.Config{
		Timeout:      config.AI.Timeout,
		ContextSize:  config.AI.ContextSize,
		MaxLogLength: config.AI.MaxLogLength,
	})

	return &application{
		config:     config,
		logger:     logger,
		store:      store,
		resolver:   r,
		adminToken: adminToken,
	}, nil
}

func (a *application) Close() {
	if a.store == nil {
		return
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing durable store", zap.Error(err))
	}
}

// newGenerator returns the configured provider, or nil when generation is
// disabled.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("generative answers are disabled", zap.String("hint", "set ai.enabled to true"))
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", ai.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

		generator, err := gemini.NewGenerator(ctx, genLogger, gemini.Options{
			APIKey:       apiKey,
			Model:        cfg.Gemini.Model,
			MaxRetries:   cfg.Gemini.MaxRetries,
			MaxLogLength: cfg.MaxLogLength,
		})
		if err != nil {
			return nil, err
		}
		return generator, nil
	case ai.ProviderDeepSeek:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "deepseek api key",
			Value: cfg.DeepSeek.APIKey,
			Env:   "DEEPSEEK_API_KEY",
			File:  cfg.DeepSeek.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.deepseek.api-key-file or DEEPSEEK_API_KEY)", err)
		}

		client, err := deepseek.New(logger, deepseek.Options{
			APIKey:       apiKey,
			Model:        cfg.DeepSeek.Model,
			BaseURL:      cfg.DeepSeek.BaseURL,
			MaxLogLength: cfg.MaxLogLength,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// redacted returns a copy of config that is safe to log.
func redacted(config *Config) Config {
	c := *config

	if c.Storage != nil && c.Storage.DSN != "" {
		s := *c.Storage
		s.DSN = "***"
		c.Storage = &s
	}
	if c.Admin != nil && c.Admin.Token != "" {
		a := *c.Admin
		a.Token = "***"
		c.Admin = &a
	}
	if c.AI != nil {
		aiCfg := *c.AI
		if aiCfg.Gemini != nil && aiCfg.Gemini.APIKey != "" {
			g := *aiCfg.Gemini
			g.APIKey = "***"
			aiCfg.Gemini = &g
		}
		if aiCfg.DeepSeek != nil && aiCfg.DeepSeek.APIKey != "" {
			d := *aiCfg.DeepSeek
			d.APIKey = "***"
			aiCfg.DeepSeek = &d
		}
		c.AI = &aiCfg
	}

	return c
}
