package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/internal/metrics"
	"github.com/satriahrh/stationcast/usecase"
)

// DefaultRelayTimeout bounds a single audio relay when none is configured
const DefaultRelayTimeout = 2 * time.Minute

// Dependencies are the services the routes delegate to
type Dependencies struct {
	Linkage      *usecase.LinkageService
	AudioProxy   *usecase.AudioProxy
	Metrics      *metrics.Metrics
	RelayTimeout time.Duration

	// MaxAudioBytes caps train update bodies; defaults to usecase.DefaultMaxAudioBytes
	MaxAudioBytes int64
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, deps Dependencies, logger *zap.Logger) {
	relayTimeout := deps.RelayTimeout
	if relayTimeout <= 0 {
		relayTimeout = DefaultRelayTimeout
	}
	maxAudioBytes := deps.MaxAudioBytes
	if maxAudioBytes <= 0 {
		maxAudioBytes = usecase.DefaultMaxAudioBytes
	}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Api Home Page")
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "stationcast",
		})
	})

	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	// Station APIs
	e.POST("/stations", func(c echo.Context) error {
		return createStation(c, deps.Linkage, logger)
	})
	e.GET("/stations", func(c echo.Context) error {
		return listStations(c, deps.Linkage, logger)
	})
	e.GET("/stations/:code", func(c echo.Context) error {
		return getStation(c, deps.Linkage, logger)
	})
	e.PUT("/stations/:code", func(c echo.Context) error {
		return updateStation(c, deps.Linkage, logger)
	})
	e.DELETE("/stations/:code", func(c echo.Context) error {
		return deleteStation(c, deps.Linkage, logger)
	})

	// Train APIs
	e.GET("/trains/:trainNumber", func(c echo.Context) error {
		return getTrain(c, deps.Linkage, logger)
	})
	e.POST("/trains/:trainNumber", func(c echo.Context) error {
		return updateTrain(c, deps.Linkage, maxAudioBytes, logger)
	}, uploadBodyLimit(maxAudioBytes))
	e.GET("/trains/:trainNumber/audio", func(c echo.Context) error {
		return streamTrainAudio(c, deps.AudioProxy, relayTimeout, deps.Metrics, logger)
	})
}
