package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/worksheetgen/internal/config"
	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/logger"
	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/store"
	"github.com/abhisek/worksheetgen/internal/tracing"
)

// deps is everything a generating command needs.
type deps struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *store.Store
	generator *questiongen.Generator
	shutdown  tracing.ShutdownFunc
}

// setup loads config and wires logger, usage log, tracing, provider and
// generator. quiet discards log output while a terminal view owns the screen.
func setup(cmd *cobra.Command, quiet bool) (*deps, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Nop()
	if !quiet {
		if log, err = logger.New(cfg.Log.Mode); err != nil {
			return nil, err
		}
	}
	d := &deps{cfg: cfg, log: log}

	var events store.EventRepo = store.NopEventRepo{}
	if cfg.Store.Enabled {
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.store = st
		events = st.EventRepo()
	}

	cfg.Tracing.Version = version
	d.shutdown, err = tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
		d.shutdown = func(context.Context) error { return nil }
	}

	if err := cfg.LLM.Validate(); err != nil {
		d.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	log.Info("LLM provider ready", "provider", cfg.LLM.Provider, "model", provider.ModelID())

	d.generator = questiongen.New(provider, cfg.Generation(), log)
	return d, nil
}

// Close flushes tracing, closes the store and syncs the logger.
func (d *deps) Close() {
	if d.shutdown != nil {
		_ = d.shutdown(context.Background())
	}
	if d.store != nil {
		_ = d.store.Close()
	}
	d.log.Sync()
}
