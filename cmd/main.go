package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/adapters"
	"github.com/satriahrh/stationcast/adapters/cdn"
	"github.com/satriahrh/stationcast/adapters/cloudinary"
	"github.com/satriahrh/stationcast/adapters/mongo"
	"github.com/satriahrh/stationcast/domain/repositories"
	"github.com/satriahrh/stationcast/internal/api"
	"github.com/satriahrh/stationcast/internal/config"
	"github.com/satriahrh/stationcast/internal/metrics"
	"github.com/satriahrh/stationcast/usecase"
)

func main() {
	cfg, err := config.Load()

	// Initialize logger
	logger := newLogger(cfg)
	defer logger.Sync()

	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize storage
	stations, trains, closeStore := initStore(cfg, logger)
	defer closeStore()

	audioStorage, err := cloudinary.NewStorage(cfg.Cloudinary, logger)
	if err != nil {
		logger.Fatal("Invalid Cloudinary configuration", zap.Error(err))
	}
	audioSource := cdn.NewHTTPSource(cdn.HTTPSourceConfig{}, logger)

	m := metrics.New()

	// Initialize usecase services
	audioGateway := usecase.NewAudioGateway(audioStorage, usecase.AudioGatewayConfig{
		Folder:   cfg.AudioFolder,
		MaxBytes: cfg.AudioMaxBytes,
	}, m, logger)
	linkage := usecase.NewLinkageService(stations, trains, audioGateway, logger)
	audioProxy := usecase.NewAudioProxy(trains, audioSource, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	api.InitMiddleware(e, api.MiddlewareConfig{RateLimitRPS: cfg.RateLimitRPS}, m, logger)
	api.InitRoutes(e, api.Dependencies{
		Linkage:       linkage,
		AudioProxy:    audioProxy,
		Metrics:       m,
		RelayTimeout:  cfg.AudioRelayTimeout,
		MaxAudioBytes: cfg.AudioMaxBytes,
	}, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// initStore opens the configured document store. MongoDB connectivity
// problems are logged by the client and do not prevent startup.
func initStore(cfg config.Config, logger *zap.Logger) (repositories.StationRepository, repositories.TrainRepository, func()) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return adapters.NewMemoryStationRepository(), adapters.NewMemoryTrainRepository(), func() {}
	}

	client, err := mongo.NewClient(cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("Invalid MongoDB configuration", zap.Error(err))
	}

	stations := mongo.NewStationRepository(client.Database, logger)
	trains := mongo.NewTrainRepository(client.Database, logger)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := stations.EnsureIndexes(ctx); err != nil {
			logger.Error("Failed to create station indexes", zap.Error(err))
		}
		if err := trains.EnsureIndexes(ctx); err != nil {
			logger.Error("Failed to create train indexes", zap.Error(err))
		}
	}()

	return stations, trains, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Close(ctx)
	}
}
