//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/wenliu/beebuddy/internal/bootstrap"
	"github.com/wenliu/beebuddy/internal/domain/hints"
	"github.com/wenliu/beebuddy/internal/domain/puzzle"
	"github.com/wenliu/beebuddy/internal/infra/config"
	"github.com/wenliu/beebuddy/internal/infra/llm/claude"
	"github.com/wenliu/beebuddy/internal/infra/nyt"
	httpiface "github.com/wenliu/beebuddy/internal/interface/http"
	"github.com/wenliu/beebuddy/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideNYTClient,
		provideClaudeClient,
		provideHintsConfig,
		provideHintStore,
		puzzle.NewService,
		hints.NewService,
		wire.Bind(new(puzzle.UpstreamClient), new(*nyt.Client)),
		wire.Bind(new(hints.ChatClient), new(*claude.Client)),
		wire.Bind(new(hints.PuzzleSource), new(puzzle.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
