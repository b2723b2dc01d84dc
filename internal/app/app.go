// Package app wires the components together: rule engine, template
// catalog, remote classifier selection, orchestrator and the two HTTP
// servers.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mailsense/mailsense/internal/core/classify"
	"github.com/mailsense/mailsense/internal/core/remote"
	"github.com/mailsense/mailsense/internal/core/rules"
	"github.com/mailsense/mailsense/internal/core/templates"
	"github.com/mailsense/mailsense/internal/platform/config"
	"github.com/mailsense/mailsense/internal/platform/observability"
	"github.com/mailsense/mailsense/internal/server"
)

type App struct {
	cfg    *config.Config
	logger *zerolog.Logger

	server *server.Server
	health *observability.Server
}

// New validates the startup configuration and builds the dependency graph.
// Configuration invariants (template fallback, default rule patterns) are
// enforced here, not at request time.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	catalog := templates.Default()
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("template catalog: %w", err)
	}

	engine, err := rules.NewEngine(rules.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("rule engine: %w", err)
	}

	remoteClassifier := newRemoteClassifier(cfg, logger)
	orchestrator := classify.New(cfg, engine, catalog, remoteClassifier, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		server: server.New(cfg, orchestrator, engine, catalog, logger),
		health: observability.NewServer(cfg.HealthPort, logger),
	}, nil
}

func newRemoteClassifier(cfg *config.Config, logger *zerolog.Logger) remote.Classifier {
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY not set, running on rules and heuristics only")

		return remote.NewNoop()
	}

	return remote.NewOpenAI(cfg, logger)
}

// Run serves until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start(ctx)
	})

	g.Go(func() error {
		return a.health.Start(ctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	return nil
}
