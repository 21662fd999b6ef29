package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/repositories"
)

// DefaultAudioContentType is used when the audio host sends no content type
const DefaultAudioContentType = "audio/mpeg"

// AudioProxy opens the stored announcement audio of a train for relaying
type AudioProxy struct {
	trains repositories.TrainRepository
	source repositories.AudioSource
	logger *zap.Logger
}

// NewAudioProxy creates a new audio proxy
func NewAudioProxy(trains repositories.TrainRepository, source repositories.AudioSource, logger *zap.Logger) *AudioProxy {
	return &AudioProxy{trains: trains, source: source, logger: logger}
}

// Open looks up the train's audio reference and opens the upstream stream.
// The caller must close the returned body.
func (p *AudioProxy) Open(ctx context.Context, trainNumber string) (*repositories.AudioStream, error) {
	train, err := p.trains.GetByNumber(ctx, trainNumber)
	if err != nil {
		return nil, err
	}

	if train.AudioFilePath == "" {
		return nil, domain.NotFoundf("audio for train %s", trainNumber)
	}

	stream, err := p.source.Open(ctx, train.AudioFilePath)
	if err != nil {
		return nil, err
	}

	if stream.ContentType == "" {
		stream.ContentType = DefaultAudioContentType
	}

	p.logger.Debug("Relaying train audio",
		zap.String("train_number", trainNumber),
		zap.String("content_type", stream.ContentType))
	return stream, nil
}
