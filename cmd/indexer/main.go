package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/firmanshhh/climate-extreme-indices/internal/adapter/http"
	kafkaadapter "github.com/firmanshhh/climate-extreme-indices/internal/adapter/kafka"
	"github.com/firmanshhh/climate-extreme-indices/internal/adapter/postgres"
	"github.com/firmanshhh/climate-extreme-indices/internal/config"
	"github.com/firmanshhh/climate-extreme-indices/internal/observability"
	"github.com/firmanshhh/climate-extreme-indices/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogFormat, cfg.LogLevel)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(cfg.IndexOptions(), logger, metrics)

	loaders := []pipeline.BatchLoader{writer}
	checkers := []httpadapter.ReadinessChecker{}

	// The relational sink is feature-flagged via POSTGRES_URL.
	var store *postgres.Store
	if cfg.PostgresURL != "" {
		store, err = postgres.NewStore(ctx, cfg.PostgresURL, logger)
		if err != nil {
			logger.Error("failed to connect postgres", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		loaders = append(loaders, store)
		checkers = append(checkers, httpadapter.ReadinessFunc(store.Ping))
		logger.Info("postgres sink enabled")
	} else {
		logger.Info("postgres sink disabled")
	}

	p := pipeline.New(reader, transformer, pipeline.NewMultiLoader(loaders...), logger, metrics, cfg.BatchSize)
	checkers = append([]httpadapter.ReadinessChecker{p}, checkers...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, logger, checkers...)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the index computation pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
