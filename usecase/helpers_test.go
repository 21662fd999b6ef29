package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/stationcast/adapters"
	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/domain/repositories"
)

// fakeStorage records uploads instead of sending them anywhere
type fakeStorage struct {
	mu       sync.Mutex
	requests []repositories.AudioUploadRequest
	bodies   []string
	err      error
}

func (f *fakeStorage) Upload(ctx context.Context, req repositories.AudioUploadRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return "", err
	}
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, string(body))
	return "https://cdn.example/" + req.Folder + "/" + req.PublicID + "." + req.Format, nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// fakeSource serves audio from memory
type fakeSource struct {
	contentType string
	body        string
	err         error
	opened      []string
}

func (f *fakeSource) Open(ctx context.Context, url string) (*repositories.AudioStream, error) {
	f.opened = append(f.opened, url)
	if f.err != nil {
		return nil, f.err
	}
	return &repositories.AudioStream{
		Body:          io.NopCloser(strings.NewReader(f.body)),
		ContentType:   f.contentType,
		ContentLength: int64(len(f.body)),
	}, nil
}

type testEnv struct {
	stations *adapters.MemoryStationRepository
	trains   *adapters.MemoryTrainRepository
	storage  *fakeStorage
	gateway  *AudioGateway
	linkage  *LinkageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)

	env := &testEnv{
		stations: adapters.NewMemoryStationRepository(),
		trains:   adapters.NewMemoryTrainRepository(),
		storage:  &fakeStorage{},
	}
	env.gateway = NewAudioGateway(env.storage, AudioGatewayConfig{}, nil, logger)
	env.gateway.now = func() time.Time { return time.UnixMilli(1700000000000) }
	env.linkage = NewLinkageService(env.stations, env.trains, env.gateway, logger)
	return env
}

func rajdhani() entities.TrainDescriptor {
	return entities.TrainDescriptor{
		TrainNumber:   "12301",
		TrainName:     "Rajdhani",
		Source:        "NDLS",
		Destination:   "HWH",
		ArrivalTime:   "16:00",
		DepartureTime: "16:10",
	}
}

func shatabdi() entities.TrainDescriptor {
	return entities.TrainDescriptor{
		TrainNumber:   "12002",
		TrainName:     "Shatabdi",
		Source:        "NDLS",
		Destination:   "HBJ",
		ArrivalTime:   "06:00",
		DepartureTime: "06:05",
	}
}

// failingTrainRepository fails every lookup with a store error
type failingTrainRepository struct {
	repositories.TrainRepository
}

var errStoreDown = errors.New("store unavailable")

func (failingTrainRepository) GetByNumber(ctx context.Context, number string) (*entities.Train, error) {
	return nil, errStoreDown
}
