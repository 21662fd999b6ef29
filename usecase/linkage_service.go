package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/domain/repositories"
)

// StationSubmission is a new station together with the trains passing through it
type StationSubmission struct {
	StationName string                     `json:"stationName"`
	StationCode string                     `json:"stationCode"`
	Status      entities.StationStatus     `json:"status"`
	Trains      []entities.TrainDescriptor `json:"trains"`
}

// LinkageService owns the station <-> train references. Station.trains and
// Train.stationIds are only ever synchronised here.
type LinkageService struct {
	stations repositories.StationRepository
	trains   repositories.TrainRepository
	audio    *AudioGateway
	logger   *zap.Logger
}

// NewLinkageService creates a new linkage service
func NewLinkageService(
	stations repositories.StationRepository,
	trains repositories.TrainRepository,
	audio *AudioGateway,
	logger *zap.Logger,
) *LinkageService {
	return &LinkageService{
		stations: stations,
		trains:   trains,
		audio:    audio,
		logger:   logger,
	}
}

// SubmitStationWithTrains creates the station, then creates or links every
// train in payload order. Writes are not transactional: a failure part way
// leaves the station and the trains processed so far in place.
func (s *LinkageService) SubmitStationWithTrains(ctx context.Context, sub StationSubmission) (*entities.Station, error) {
	// An explicit empty list is accepted; a missing one is not
	if sub.Trains == nil {
		return nil, domain.NewValidationError("trains", "is required")
	}

	numbers := make([]string, 0, len(sub.Trains))
	for i, descriptor := range sub.Trains {
		if strings.TrimSpace(descriptor.TrainNumber) == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("trains[%d].trainNumber", i), "is required")
		}
		numbers = append(numbers, descriptor.TrainNumber)
	}

	station := entities.NewStation(sub.StationName, sub.StationCode, sub.Status, numbers)
	if err := station.Validate(); err != nil {
		return nil, err
	}

	if err := s.stations.Create(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("Station created",
		zap.String("station_code", station.StationCode),
		zap.String("station_id", station.ID.Hex()),
		zap.Int("trains", len(numbers)))

	for _, descriptor := range sub.Trains {
		if err := s.linkTrain(ctx, station, descriptor); err != nil {
			s.logger.Error("Station submission partially applied",
				zap.String("station_code", station.StationCode),
				zap.String("train_number", descriptor.TrainNumber),
				zap.Error(err))
			return nil, err
		}
	}

	return station, nil
}

func (s *LinkageService) linkTrain(ctx context.Context, station *entities.Station, descriptor entities.TrainDescriptor) error {
	train, err := s.trains.GetByNumber(ctx, descriptor.TrainNumber)
	switch {
	case err == nil:
		if !train.LinkStation(station.ID) {
			return nil
		}
		if err := s.trains.Update(ctx, train); err != nil {
			return fmt.Errorf("failed to link train %s: %w", train.TrainNumber, err)
		}
		s.logger.Debug("Train linked to station",
			zap.String("train_number", train.TrainNumber),
			zap.String("station_code", station.StationCode))
		return nil

	case errors.Is(err, domain.ErrNotFound):
		train = entities.NewTrain(descriptor, station.ID)
		if err := train.Validate(); err != nil {
			return err
		}
		if err := s.trains.Create(ctx, train); err != nil {
			return err
		}
		s.logger.Debug("Train created",
			zap.String("train_number", train.TrainNumber),
			zap.String("station_code", station.StationCode))
		return nil

	default:
		return err
	}
}

// GetStationByCode returns the station with its trains resolved to full documents
func (s *LinkageService) GetStationByCode(ctx context.Context, code string) (*entities.StationDetail, error) {
	station, err := s.stations.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	trains, err := s.trains.GetByNumbers(ctx, station.TrainNumbers())
	if err != nil {
		return nil, err
	}

	return &entities.StationDetail{
		ID:          station.ID,
		StationName: station.StationName,
		StationCode: station.StationCode,
		Status:      station.Status,
		Trains:      trains,
	}, nil
}

// ListStations returns every station as stored
func (s *LinkageService) ListStations(ctx context.Context) ([]*entities.Station, error) {
	return s.stations.List(ctx)
}

// UpdateStation applies the present fields of the patch
func (s *LinkageService) UpdateStation(ctx context.Context, code string, patch entities.StationPatch) (*entities.Station, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	station, err := s.stations.UpdateByCode(ctx, code, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Station updated", zap.String("station_code", code))
	return station, nil
}

// DeleteStation removes the station. Trains keep the dangling station id.
func (s *LinkageService) DeleteStation(ctx context.Context, code string) error {
	if err := s.stations.DeleteByCode(ctx, code); err != nil {
		return err
	}
	s.logger.Info("Station deleted", zap.String("station_code", code))
	return nil
}

// GetTrainByNumber returns the train with its stations resolved to name and code.
// Stations deleted since linking are skipped.
func (s *LinkageService) GetTrainByNumber(ctx context.Context, number string) (*entities.TrainDetail, error) {
	train, err := s.trains.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	stations, err := s.stations.GetByIDs(ctx, train.StationIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]entities.StationSummary, 0, len(stations))
	for _, station := range stations {
		summaries = append(summaries, entities.StationSummary{
			ID:          station.ID,
			StationName: station.StationName,
			StationCode: station.StationCode,
		})
	}

	if len(summaries) < len(train.StationIDs) {
		s.logger.Debug("Train references missing stations",
			zap.String("train_number", number),
			zap.Int("linked", len(train.StationIDs)),
			zap.Int("resolved", len(summaries)))
	}

	return &entities.TrainDetail{
		ID:            train.ID,
		TrainName:     train.TrainName,
		TrainNumber:   train.TrainNumber,
		Source:        train.Source,
		Destination:   train.Destination,
		ArrivalTime:   train.ArrivalTime,
		DepartureTime: train.DepartureTime,
		Stations:      summaries,
		AudioFilePath: train.AudioFilePath,
	}, nil
}

// UpdateTrain patches the train and, when audio is given, stores it and
// records its URL. The audio is validated before anything is read or written.
func (s *LinkageService) UpdateTrain(ctx context.Context, number string, patch entities.TrainPatch, audio *AudioUpload) (*entities.Train, error) {
	if audio != nil {
		if err := s.audio.Validate(audio.FileName, audio.Size); err != nil {
			return nil, err
		}
	}

	train, err := s.trains.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	patch.Apply(train)

	if audio != nil {
		url, err := s.audio.Accept(ctx, *audio)
		if err != nil {
			return nil, err
		}
		train.AudioFilePath = url
	}

	if err := s.trains.Update(ctx, train); err != nil {
		return nil, err
	}

	s.logger.Info("Train updated",
		zap.String("train_number", number),
		zap.Bool("audio", audio != nil))
	return train, nil
}
