package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/pipeline-leak-watch/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/pipeline-leak-watch/internal/adapter/kafka"
	"github.com/couchcryptid/pipeline-leak-watch/internal/adapter/openai"
	"github.com/couchcryptid/pipeline-leak-watch/internal/config"
	"github.com/couchcryptid/pipeline-leak-watch/internal/diagnosis"
	"github.com/couchcryptid/pipeline-leak-watch/internal/monitor"
	"github.com/couchcryptid/pipeline-leak-watch/internal/observability"
	"github.com/couchcryptid/pipeline-leak-watch/internal/pipeline"
)

func main() {
	// A missing .env is normal in containers; everything else is fatal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	mon, err := monitor.New(monitor.Options{
		Seed:      cfg.FleetSeed,
		Clusters:  cfg.Clusters,
		Threshold: cfg.RiskThreshold,
	}, logger, metrics)
	if err != nil {
		logger.Error("failed to generate fleet", "error", err)
		os.Exit(1)
	}

	// Narratives are feature-flagged on OPENAI_API_KEY.
	var narrator httpadapter.Narrator
	if cfg.NarrativeEnabled() {
		client := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OpenAITimeout, logger)
		completer := openai.NewCachedCompleter(client, cfg.NarrativeCacheSize, metrics)
		narrator = diagnosis.NewService(completer, logger, metrics)
		metrics.NarrativeEnabled.Set(1)
		logger.Info("narrative diagnostics enabled", "model", cfg.OpenAIModel, "cache_size", cfg.NarrativeCacheSize, "timeout", cfg.OpenAITimeout)
	} else {
		logger.Info("narrative diagnostics disabled")
	}

	ready := httpadapter.ReadinessGroup{mon}

	var (
		writer    *kafkaadapter.Writer
		publisher *pipeline.Publisher
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher, err = pipeline.New(mon, writer, cfg.AlertSchedule, logger, metrics)
		if err != nil {
			logger.Error("failed to create alert publisher", "error", err)
			os.Exit(1)
		}
		ready = append(ready, publisher)
		logger.Info("risk alert publishing enabled",
			"brokers", cfg.KafkaBrokers,
			"topic", cfg.KafkaAlertTopic,
			"schedule", cfg.AlertSchedule,
		)
	} else {
		logger.Info("risk alert publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, mon, narrator, ready, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if publisher != nil {
		g.Go(func() error {
			return publisher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if writer != nil {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
