package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/agri-advisor-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/agri-advisor-service/internal/adapter/kafka"
	"github.com/couchcryptid/agri-advisor-service/internal/adapter/mongo"
	"github.com/couchcryptid/agri-advisor-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/agri-advisor-service/internal/advisor"
	"github.com/couchcryptid/agri-advisor-service/internal/config"
	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"github.com/couchcryptid/agri-advisor-service/internal/observability"
	"github.com/couchcryptid/agri-advisor-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load crop catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("crop catalog loaded", "crops", catalog.Len(), "path", cfg.CatalogPath)
	engine := domain.NewEngine(catalog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// District storage and history (feature-flagged via MONGO_ENABLED / MONGO_URI).
	var (
		store       advisor.Store
		mongoStore  *mongo.Store
		readyChecks []sharedobs.ReadinessChecker
	)
	if cfg.MongoEnabled {
		mongoStore, err = mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Error("failed to connect to mongodb", "error", err)
			os.Exit(1)
		}
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.Error("failed to create mongodb indexes", "error", err)
			os.Exit(1)
		}
		store = mongoStore
	} else {
		logger.Info("storage disabled, district recommendations unavailable")
	}

	// Real-time weather (feature-flagged via WEATHER_ENABLED).
	var weather domain.WeatherProvider
	if cfg.WeatherEnabled {
		client := openmeteo.NewClient(cfg.WeatherTimeout, metrics, logger)
		weather = openmeteo.NewCachedProvider(client, cfg.WeatherCacheTTL, metrics)
		metrics.WeatherEnabled.Set(1)
		logger.Info("open-meteo weather enabled", "cache_ttl", cfg.WeatherCacheTTL, "timeout", cfg.WeatherTimeout)
	} else {
		logger.Info("open-meteo weather disabled")
	}

	svc := advisor.New(engine, store, weather, metrics, logger)
	readyChecks = append(readyChecks, svc)

	// Stream pipeline (feature-flagged via KAFKA_ENABLED).
	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewTransformer(engine, logger), writer, logger, metrics, cfg.BatchSize)
		readyChecks = append(readyChecks, p)

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("stream pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, observability.NewReadiness(readyChecks...), cfg.CORSAllowedOrigins, logger)

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
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if mongoStore != nil {
		if err := mongoStore.Close(shutdownCtx); err != nil {
			logger.Error("mongodb disconnect error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	return domain.LoadCatalog(path)
}
