package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/stationcast/adapters"
	"github.com/satriahrh/stationcast/adapters/cdn"
	"github.com/satriahrh/stationcast/domain/repositories"
	"github.com/satriahrh/stationcast/internal/metrics"
	"github.com/satriahrh/stationcast/usecase"
)

// audioHost stands in for both the upload API and the CDN serving the stored files
type audioHost struct {
	mu      sync.Mutex
	server  *httptest.Server
	objects map[string][]byte
	uploads int
}

func newAudioHost(t *testing.T) *audioHost {
	t.Helper()
	host := &audioHost{objects: make(map[string][]byte)}
	host.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host.mu.Lock()
		body, ok := host.objects[r.URL.Path]
		host.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(host.server.Close)
	return host
}

func (h *audioHost) Upload(ctx context.Context, req repositories.AudioUploadRequest) (string, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return "", err
	}

	path := "/" + req.Folder + "/" + req.PublicID + "." + req.Format

	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects[path] = body
	h.uploads++
	return h.server.URL + path, nil
}

func (h *audioHost) uploadCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.uploads
}

type testServer struct {
	echo    *echo.Echo
	host    *audioHost
	trains  *adapters.MemoryTrainRepository
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)

	stations := adapters.NewMemoryStationRepository()
	trains := adapters.NewMemoryTrainRepository()
	host := newAudioHost(t)
	m := metrics.New()

	gateway := usecase.NewAudioGateway(host, usecase.AudioGatewayConfig{}, m, logger)
	linkage := usecase.NewLinkageService(stations, trains, gateway, logger)
	proxy := usecase.NewAudioProxy(trains, cdn.NewHTTPSource(cdn.HTTPSourceConfig{}, logger), logger)

	e := echo.New()
	InitMiddleware(e, MiddlewareConfig{}, m, logger)
	InitRoutes(e, Dependencies{
		Linkage:    linkage,
		AudioProxy: proxy,
		Metrics:    m,
	}, logger)

	return &testServer{echo: e, host: host, trains: trains, metrics: m}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return s.do(req)
}

// multipartRequest builds a train update form; an empty fileName omits the file part
func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile(audioFormField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(strings.NewReader(rec.Body.String())).Decode(v))
}

// mustField returns the raw JSON of a top-level response field
func mustField(t *testing.T, rec *httptest.ResponseRecorder, name string) string {
	t.Helper()
	var fields map[string]json.RawMessage
	decode(t, rec, &fields)
	raw, ok := fields[name]
	require.True(t, ok, "missing field %s", name)
	return string(raw)
}

func ndlsPayload() map[string]interface{} {
	return map[string]interface{}{
		"stationName": "New Delhi",
		"stationCode": "NDLS",
		"trains": []map[string]string{{
			"trainNumber":   "12301",
			"trainName":     "Rajdhani",
			"source":        "NDLS",
			"destination":   "HWH",
			"arrivalTime":   "16:00",
			"departureTime": "16:10",
		}},
	}
}
