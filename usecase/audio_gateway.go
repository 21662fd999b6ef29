package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/repositories"
	"github.com/satriahrh/stationcast/internal/metrics"
)

const (
	// DefaultAudioFolder is the logical folder audio objects are stored under
	DefaultAudioFolder = "train-audio"
	// DefaultMaxAudioBytes is the largest accepted upload (5 MiB)
	DefaultMaxAudioBytes int64 = 5 * 1024 * 1024
)

var allowedAudioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".aac": true,
}

// AudioUpload is an audio file received from a client
type AudioUpload struct {
	Body     io.Reader
	FileName string
	Size     int64
}

// AudioGatewayConfig holds the upload constraints
type AudioGatewayConfig struct {
	Folder   string
	MaxBytes int64
}

// AudioGateway validates audio uploads and hands them to external storage
type AudioGateway struct {
	storage  repositories.AudioStorage
	folder   string
	maxBytes int64
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAudioGateway creates a new audio gateway
func NewAudioGateway(storage repositories.AudioStorage, config AudioGatewayConfig, m *metrics.Metrics, logger *zap.Logger) *AudioGateway {
	folder := config.Folder
	if folder == "" {
		folder = DefaultAudioFolder
	}

	maxBytes := config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAudioBytes
	}

	return &AudioGateway{
		storage:  storage,
		folder:   folder,
		maxBytes: maxBytes,
		now:      time.Now,
		metrics:  m,
		logger:   logger,
	}
}

// Validate checks the file name, extension and size without touching storage.
// A name that is only an extension, like ".mp3", has no extension at all.
func (g *AudioGateway) Validate(fileName string, size int64) error {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if strings.TrimSpace(name) == "" || !allowedAudioExtensions[strings.ToLower(ext)] {
		g.metrics.RecordAudioUpload(metrics.UploadRejected)
		return domain.NewValidationError("audioFilePath",
			"Invalid file type. Only .mp3, .wav, and .aac files are allowed.")
	}

	if size > g.maxBytes {
		g.metrics.RecordAudioUpload(metrics.UploadRejected)
		return domain.NewValidationError("audioFilePath",
			fmt.Sprintf("File too large. Maximum size is %d bytes.", g.maxBytes))
	}

	return nil
}

// Accept validates the upload and streams it to storage, returning the public URL
func (g *AudioGateway) Accept(ctx context.Context, upload AudioUpload) (string, error) {
	if err := g.Validate(upload.FileName, upload.Size); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	publicID := g.publicID(upload.FileName)

	url, err := g.storage.Upload(ctx, repositories.AudioUploadRequest{
		Body:     upload.Body,
		Folder:   g.folder,
		PublicID: publicID,
		Format:   strings.TrimPrefix(ext, "."),
	})
	if err != nil {
		g.metrics.RecordAudioUpload(metrics.UploadFailed)
		g.logger.Error("Audio upload failed",
			zap.String("file_name", upload.FileName),
			zap.String("public_id", publicID),
			zap.Error(err))
		return "", err
	}

	g.metrics.RecordAudioUpload(metrics.UploadStored)
	g.logger.Info("Audio stored",
		zap.String("file_name", upload.FileName),
		zap.String("public_id", publicID),
		zap.String("url", url))
	return url, nil
}

// publicID derives a collision-resistant object name from the base name and the current time
func (g *AudioGateway) publicID(fileName string) string {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%d", name, g.now().UnixMilli())
}
