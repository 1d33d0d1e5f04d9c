package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/partkade/partsearch/internal/ai"
	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/config"
	"github.com/partkade/partsearch/internal/mcp"
	"github.com/partkade/partsearch/internal/ranker"
	"github.com/partkade/partsearch/internal/searcher"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("partsearch MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", catalog.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", catalog.DriverName)
		os.Exit(0)
	}

	cfg, err := config.Load(os.Getenv("PARTSEARCH_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; all logging goes to stderr
	log := newLogger(cfg.Log)
	log.Info().
		Str("version", version).
		Str("build_mode", catalog.BuildMode).
		Str("driver", catalog.DriverName).
		Msg("partsearch starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open catalog database")
	}
	defer func() { _ = store.Close() }()

	provider, err := ai.NewProvider(ai.Config{
		Provider:  cfg.AI.Provider,
		APIKey:    cfg.AI.APIKey,
		CacheSize: cfg.AI.CacheSize,
	})
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("failed to initialize ai provider")
	}
	if provider != nil {
		defer func() { _ = provider.Close() }()
		log.Info().Str("provider", provider.Provider()).Str("model", provider.Model()).Msg("ai provider ready")
	} else {
		log.Info().Msg("no ai provider configured, base strategies only")
	}

	holder := catalog.NewHolder(store, cfg.Catalog.RefreshTTL, log)

	weights := ranker.Weights{
		Exact:    cfg.Search.ExactWeight,
		Synonym:  cfg.Search.SynonymWeight,
		Semantic: cfg.Search.SemanticWeight,
		Fuzzy:    cfg.Search.FuzzyWeight,
	}
	engine := searcher.NewEngine(holder, provider, log,
		searcher.WithRanker(ranker.New(weights, cfg.Search.MinScore)),
		searcher.WithAITimeout(cfg.AI.Timeout),
	)

	// Rebuild the semantic index off the request path on every snapshot swap
	if provider != nil {
		holder.OnSwap(func(snap *catalog.Snapshot) {
			go func() {
				if err := engine.RebuildSemanticIndex(ctx, snap); err != nil {
					log.Warn().Err(err).Int64("version", snap.Version()).Msg("semantic index rebuild failed")
				}
			}()
		})
	}

	// The first load must succeed: serving without a catalog is worse than
	// not starting
	if err := holder.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial catalog load failed")
	}
	go holder.Run(ctx)

	if cfg.Redis.Enabled {
		changeSignal, err := catalog.NewChangeSignal(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, holder, log)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect change signal")
		}
		defer func() { _ = changeSignal.Close() }()
		go func() {
			if err := changeSignal.Watch(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("change signal watch stopped")
			}
		}()
	}

	server := mcp.NewServer(engine, store, holder, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info().Msg("mcp server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}

	log.Info().Msg("server stopped")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out zerolog.Logger
	if cfg.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		out = zerolog.New(os.Stderr)
	}
	return out.Level(level).With().Timestamp().Logger()
}
