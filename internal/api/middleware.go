package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/satriahrh/stationcast/internal/metrics"
)

const rateLimiterExpiry = 3 * time.Minute

// uploadFormAllowance is the room left above the audio size limit for the
// other form fields and the multipart framing
const uploadFormAllowance = 1024 * 1024

// MiddlewareConfig selects the optional middleware
type MiddlewareConfig struct {
	// RateLimitRPS is the per-client request rate; 0 disables limiting
	RateLimitRPS float64
}

// InitMiddleware installs the middleware chain shared by main and tests
func InitMiddleware(e *echo.Echo, cfg MiddlewareConfig, m *metrics.Metrics, logger *zap.Logger) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(MetricsMiddleware(m))

	if cfg.RateLimitRPS > 0 {
		e.Use(rateLimiter(cfg.RateLimitRPS))
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// MetricsMiddleware records request count and latency per route.
// If m is nil, it is a pass-through.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}

		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler set the final status before it is recorded.
				// The error still goes up to the request logger; echo ignores it
				// once the response is committed.
				c.Error(err)
			}

			// Use the route pattern to avoid cardinality issues
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			m.ObserveHTTPRequest(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
				time.Since(start).Seconds(),
			)
			return err
		}
	}
}

func rateLimiter(rps float64) echo.MiddlewareFunc {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/", "/health", "/metrics":
				return true
			}
			return false
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "Unable to identify client",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many requests",
			})
		},
	})
}

// uploadBodyLimit stops reading a train update once the body exceeds the audio
// size limit plus the form allowance. The rejection is reported like any other
// oversize file.
func uploadBodyLimit(maxAudioBytes int64) echo.MiddlewareFunc {
	limit := middleware.BodyLimit(strconv.FormatInt(maxAudioBytes+uploadFormAllowance, 10))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := limit(next)
		return func(c echo.Context) error {
			err := limited(c)
			if isBodyTooLarge(err) {
				return respondFileTooLarge(c, maxAudioBytes)
			}
			return err
		}
	}
}

func isBodyTooLarge(err error) bool {
	return errors.Is(err, echo.ErrStatusRequestEntityTooLarge)
}

func respondFileTooLarge(c echo.Context, maxAudioBytes int64) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_failed",
		Message: fmt.Sprintf("audioFilePath: File too large. Maximum size is %d bytes.", maxAudioBytes),
	})
}
