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

	"github.com/floodforge/flood-risk-service/internal/adapter/alertfeed"
	"github.com/floodforge/flood-risk-service/internal/adapter/httpapi"
	"github.com/floodforge/flood-risk-service/internal/adapter/rediscache"
	"github.com/floodforge/flood-risk-service/internal/config"
	"github.com/floodforge/flood-risk-service/internal/forecast"
	"github.com/floodforge/flood-risk-service/internal/observability"
	"github.com/floodforge/flood-risk-service/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	store, err := postgres.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Alert feed (feature-flagged via ALERT_FEED_ENABLED / KAFKA_BROKERS).
	var alertFeed forecast.AlertPublisher
	var feedWriter *alertfeed.Writer
	if cfg.AlertFeedEnabled {
		feedWriter = alertfeed.NewWriter(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		alertFeed = feedWriter
		logger.Info("alert feed enabled", "topic", cfg.KafkaAlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("alert feed disabled")
	}

	// Prediction publishing (feature-flagged via REDIS_URL).
	var predictions forecast.PredictionPublisher
	var redisPublisher *rediscache.Publisher
	if cfg.RedisURL != "" {
		redisPublisher, err = rediscache.NewPublisher(ctx, cfg.RedisURL, cfg.PredictionChannel, cfg.PredictionCacheTTL, logger)
		if err != nil {
			logger.Error("redis init failed", "error", err)
			os.Exit(1)
		}
		predictions = redisPublisher
		logger.Info("prediction publishing enabled", "channel", cfg.PredictionChannel, "cache_ttl", cfg.PredictionCacheTTL)
	} else {
		logger.Info("prediction publishing disabled")
	}

	service := forecast.New(store, clockwork.NewRealClock(), logger, metrics, alertFeed, predictions)
	srv := httpapi.NewServer(cfg.HTTPAddr, service, store, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if feedWriter != nil {
		if err := feedWriter.Close(); err != nil {
			logger.Error("alert feed close error", "error", err)
		}
	}
	if redisPublisher != nil {
		if err := redisPublisher.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
