package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/repositories"
)

const (
	defaultResponseHeaderTimeout = 15 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultMaxIdleConnsPerHost   = 10
)

// HTTPSourceConfig holds configuration for the HTTPSource adapter
// Optional fields with defaults:
// - ResponseHeaderTimeout: how long to wait for upstream headers (default: 15s)
// - Client: a preconfigured HTTP client, mostly for tests
type HTTPSourceConfig struct {
	ResponseHeaderTimeout time.Duration
	Client                *http.Client
}

// HTTPSource implements AudioSource by fetching audio over HTTP(S).
// The body is never buffered; the caller owns and must close it.
type HTTPSource struct {
	client *http.Client
	logger *zap.Logger
}

var _ repositories.AudioSource = (*HTTPSource)(nil)

// NewHTTPSource creates a new audio source
func NewHTTPSource(config HTTPSourceConfig, logger *zap.Logger) *HTTPSource {
	client := config.Client
	if client == nil {
		headerTimeout := config.ResponseHeaderTimeout
		if headerTimeout == 0 {
			headerTimeout = defaultResponseHeaderTimeout
		}

		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = headerTimeout
		transport.IdleConnTimeout = defaultIdleConnTimeout
		transport.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost

		// No client-level Timeout: it would also cap the body read.
		// The relay deadline is carried by the request context instead.
		client = &http.Client{Transport: transport}
	}

	return &HTTPSource{client: client, logger: logger}
}

// Open implements repositories.AudioSource
func (s *HTTPSource) Open(ctx context.Context, url string) (*repositories.AudioStream, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.UpstreamError{URL: url, Err: fmt.Errorf("failed to create HTTP request: %w", err)}
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Error("Failed to fetch audio", zap.String("url", url), zap.Error(err))
		return nil, &domain.UpstreamError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		s.logger.Warn("Audio host returned error",
			zap.String("url", url),
			zap.Int("statusCode", resp.StatusCode))
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrAudioUnavailable)
	}

	s.logger.Debug("Audio stream opened",
		zap.String("url", url),
		zap.String("contentType", resp.Header.Get("Content-Type")),
		zap.Int64("contentLength", resp.ContentLength))

	return &repositories.AudioStream{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}
