package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/turf-risk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/turf-risk/internal/adapter/kafka"
	"github.com/couchcryptid/turf-risk/internal/adapter/nasapower"
	"github.com/couchcryptid/turf-risk/internal/config"
	"github.com/couchcryptid/turf-risk/internal/domain"
	"github.com/couchcryptid/turf-risk/internal/monitor"
	"github.com/couchcryptid/turf-risk/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	params, err := domain.ParamsFor(cfg.ModelVariant)
	if err != nil {
		logger.Error("invalid model variant", "error", err)
		os.Exit(1)
	}
	logger.Info("risk model configured", "variant", cfg.ModelVariant)

	client := nasapower.NewClient(cfg.NASAPowerTimeout, metrics, logger)
	weather := nasapower.NewCachedProvider(client, cfg.WeatherCacheSize, metrics)

	// Alert publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher monitor.AlertPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka alerts enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka alerts disabled")
	}

	m := monitor.New(cfg, params, weather, publisher, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg, params, weather, m, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start site monitor.
	go func() {
		if err := m.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
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

	logger.Info("shutdown complete")
}
