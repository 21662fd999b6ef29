// Package metrics provides Prometheus metrics for the stationcast server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Audio upload outcomes
const (
	UploadStored   = "stored"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Audio metrics
	AudioUploadsTotal      *prometheus.CounterVec
	AudioRelayedBytesTotal prometheus.Counter
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationcast_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stationcast_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	audioUploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationcast_audio_uploads_total",
			Help: "Audio uploads by outcome",
		},
		[]string{"result"},
	)

	audioRelayedBytesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stationcast_audio_relayed_bytes_total",
		Help: "Bytes of audio relayed from the audio host to clients",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		audioUploadsTotal,
		audioRelayedBytesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:               registry,
		HTTPRequestsTotal:      httpRequestsTotal,
		HTTPRequestDuration:    httpRequestDuration,
		AudioUploadsTotal:      audioUploadsTotal,
		AudioRelayedBytesTotal: audioRelayedBytesTotal,
	}
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordAudioUpload counts an upload outcome
func (m *Metrics) RecordAudioUpload(result string) {
	if m == nil {
		return
	}
	m.AudioUploadsTotal.WithLabelValues(result).Inc()
}

// AddRelayedBytes counts audio bytes written to clients
func (m *Metrics) AddRelayedBytes(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.AudioRelayedBytesTotal.Add(float64(n))
}
