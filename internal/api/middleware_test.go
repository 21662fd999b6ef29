package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/satriahrh/stationcast/internal/metrics"
)

func TestHomeAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.doJSON(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Api Home Page", rec.Body.String())

	rec = s.doJSON(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"stationcast"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	t.Run("Generated", func(t *testing.T) {
		rec := s.doJSON(t, http.MethodGet, "/health", nil)
		assert.Regexp(t, `^[0-9a-f-]{36}$`, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("Preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(echo.HeaderXRequestID, "trace-123")
		rec := s.do(req)
		assert.Equal(t, "trace-123", rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestMetricsMiddleware(t *testing.T) {
	s := newTestServer(t)

	s.doJSON(t, http.MethodGet, "/stations/NDLS", nil)
	s.doJSON(t, http.MethodGet, "/stations/CNB", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		s.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/stations/:code", "404")))

	rec := s.doJSON(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stationcast_http_requests_total")
}

func TestMiddleware_HandlerErrorReachesLogAndMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()

	e := echo.New()
	InitMiddleware(e, MiddlewareConfig{}, m, zap.New(core))
	e.GET("/fail", func(c echo.Context) error {
		return errors.New("relay interrupted")
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "short and stout")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Contains(t, entry.ContextMap(), "error")
	}
	assert.Equal(t, "relay interrupted", entries[0].ContextMap()["error"])
	assert.Equal(t, int64(http.StatusInternalServerError), entries[0].ContextMap()["status"])

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/fail", "500")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418")))
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware(nil))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	InitMiddleware(e, MiddlewareConfig{RateLimitRPS: 1}, metrics.New(), zaptest.NewLogger(t))
	e.GET("/stations", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	get := func(target string) int {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get("/stations"))
	assert.Equal(t, http.StatusTooManyRequests, get("/stations"))

	// Probes are never limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get("/health"))
	}
}
