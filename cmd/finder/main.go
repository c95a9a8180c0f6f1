// Command finder serves the program finder API over a CSV dataset directory.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/baseball-program-finder/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/baseball-program-finder/internal/adapter/kafka"
	"github.com/couchcryptid/baseball-program-finder/internal/adapter/mapbox"
	"github.com/couchcryptid/baseball-program-finder/internal/adapter/sqlstore"
	"github.com/couchcryptid/baseball-program-finder/internal/config"
	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/observability"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/couchcryptid/baseball-program-finder/internal/shortlist"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := dataset.Load(cfg.DataDir, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}

	analyzer, err := roster.New(data.Rosters, data.History, roster.Options{
		CurrentSeasonEndYear: cfg.CurrentSeasonEndYear,
		WindowYears:          cfg.TrajectoryWindowYears,
	})
	if err != nil {
		logger.Error("failed to build roster analyzer", "error", err)
		os.Exit(1)
	}

	store, err := sqlstore.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		logger.Error("failed to open classification store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	// Changelog publishing is feature-flagged via KAFKA_ENABLED.
	var publisher fit.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewWriter(cfg, logger)
		logger.Info("classification changelog enabled", "topic", cfg.KafkaClassificationTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("classification changelog disabled")
	}

	// Home ZIP geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	svc := shortlist.New(shortlist.Deps{
		Dataset:     data,
		Analyzer:    analyzer,
		Classifier:  fit.New(nil),
		Store:       store,
		Publisher:   publisher,
		Geocoder:    geocoder,
		Logger:      logger,
		Metrics:     metrics,
		Concurrency: cfg.MetricsConcurrency,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

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
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
