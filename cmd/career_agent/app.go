package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/agent"
	"github.com/jonathan/career-advisor/internal/config"
	"github.com/jonathan/career-advisor/internal/docgen"
	"github.com/jonathan/career-advisor/internal/history"
	"github.com/jonathan/career-advisor/internal/jobs"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/logger"
	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/tools"
)

// app bundles the long-lived collaborators shared by every conversation:
// configuration, logging, the LLM client, and optional history storage.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	llm    *llm.GeminiClient
	hist   *history.Store
}

// buildApp resolves configuration (flags > config file > environment >
// defaults) and constructs the shared clients.
func buildApp(ctx context.Context, jsonLogs bool) (*app, error) {
	var cfg config.Config
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg.FromEnv()
	cfg.ApplyDefaults()
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log, err := logger.New(jsonLogs, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log, llm: client}

	if cfg.DatabaseURL != "" {
		hist, err := history.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn("history storage unavailable, continuing without it", zap.Error(err))
		} else if err := hist.EnsureSchema(ctx); err != nil {
			log.Warn("history schema setup failed, continuing without it", zap.Error(err))
			hist.Close()
		} else {
			a.hist = hist
		}
	}

	return a, nil
}

// newLoop builds a fresh conversation: its own session store, tool
// registry, and backend chat session.
func (a *app) newLoop() (*agent.Loop, error) {
	store := session.NewStore()

	deps := &tools.Deps{
		LLM:         a.llm,
		Search:      jobs.NewAdzunaClient(a.cfg.AdzunaAppID, a.cfg.AdzunaAppKey),
		Writer:      docgen.NewWriter(a.cfg.GeneratedDir, a.cfg.TemplateDir),
		Logger:      a.logger,
		SearchLimit: a.cfg.SearchLimit,
		UseBrowser:  a.cfg.UseBrowser,
	}
	if a.hist != nil {
		deps.Recorder = a.hist
	}
	registry := tools.NewRegistry(deps)

	backend := agent.NewGeminiBackend(a.llm, registry, func() string {
		return store.Get().ContextString()
	})

	return agent.New(backend, registry, store,
		agent.WithMaxRounds(a.cfg.MaxRounds),
		agent.WithTurnTimeout(time.Duration(a.cfg.TurnTimeout)*time.Second),
		agent.WithLogger(a.logger),
	), nil
}

// close releases shared resources.
func (a *app) close() {
	if a.hist != nil {
		a.hist.Close()
	}
	_ = a.llm.Close()
	_ = a.logger.Sync()
}
