package repositories

import (
	"context"
	"io"
)

// AudioUploadRequest describes an audio object to put into external storage
type AudioUploadRequest struct {
	Body     io.Reader
	Folder   string
	PublicID string
	Format   string
}

// AudioStorage abstracts the object storage/CDN holding announcement audio
type AudioStorage interface {
	// Upload streams the object to storage and returns its public URL
	Upload(ctx context.Context, req AudioUploadRequest) (string, error)
}

// AudioStream is an open upstream audio body
type AudioStream struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// AudioSource fetches previously stored audio by URL
type AudioSource interface {
	// Open starts a streaming fetch. A non-success upstream status yields
	// domain.ErrAudioUnavailable, a transport failure a *domain.UpstreamError.
	Open(ctx context.Context, url string) (*AudioStream, error)
}
