package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/wenliu/beebuddy/internal/domain/hints"
	"github.com/wenliu/beebuddy/internal/infra/config"
	"github.com/wenliu/beebuddy/internal/infra/hintstore"
	"github.com/wenliu/beebuddy/internal/infra/llm/claude"
	"github.com/wenliu/beebuddy/internal/infra/nyt"
)

func provideNYTClient(cfg *config.Config) *nyt.Client {
	return nyt.NewClient(cfg.NYT.BaseURL, cfg.NYT.UserAgent)
}

func provideClaudeClient(cfg *config.Config) *claude.Client {
	return claude.NewClient(cfg.LLM.BaseURL)
}

func provideHintsConfig(cfg *config.Config) hints.Config {
	return hints.Config{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		CacheTTL:  cfg.Hints.CacheTTL,
	}
}

func provideHintStore(cfg *config.Config, logger *slog.Logger) hints.Store {
	if cfg.Hints.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return hintstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return hintstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("hint valkey store enabled", "addr", cfg.Hints.Valkey.Addr)
			return hintstore.NewValkeyStore(client)
		}
	}
	return hintstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Hints.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Hints.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Hints.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
