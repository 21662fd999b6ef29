package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/domain/repositories"
)

const stationsCollection = "stations"

// StationRepository implements repositories.StationRepository using MongoDB
type StationRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.StationRepository = (*StationRepository)(nil)

// NewStationRepository creates a new MongoDB station repository
func NewStationRepository(db *mongo.Database, logger *zap.Logger) *StationRepository {
	return &StationRepository{
		collection: db.Collection(stationsCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique index on stationCode
func (r *StationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "stationCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create station indexes: %w", err)
	}
	return nil
}

// Create implements repositories.StationRepository
func (r *StationRepository) Create(ctx context.Context, station *entities.Station) error {
	if station == nil {
		return errors.New("station cannot be nil")
	}
	if station.ID.IsZero() {
		station.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, station); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("stationCode",
				fmt.Sprintf("station with code %s already exists", station.StationCode))
		}
		r.logger.Error("Failed to create station", zap.Error(err), zap.String("station_code", station.StationCode))
		return fmt.Errorf("failed to create station: %w", err)
	}

	return nil
}

// GetByCode implements repositories.StationRepository
func (r *StationRepository) GetByCode(ctx context.Context, code string) (*entities.Station, error) {
	var station entities.Station
	err := r.collection.FindOne(ctx, bson.M{"stationCode": code}).Decode(&station)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFoundf("station %s", code)
		}
		return nil, fmt.Errorf("failed to get station %s: %w", code, err)
	}
	return &station, nil
}

// GetByIDs implements repositories.StationRepository
func (r *StationRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entities.Station, error) {
	if len(ids) == 0 {
		return []*entities.Station{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// List implements repositories.StationRepository
func (r *StationRepository) List(ctx context.Context) ([]*entities.Station, error) {
	return r.find(ctx, bson.M{})
}

func (r *StationRepository) find(ctx context.Context, filter bson.M) ([]*entities.Station, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find stations: %w", err)
	}
	defer cursor.Close(ctx)

	stations := make([]*entities.Station, 0)
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode stations: %w", err)
	}
	return stations, nil
}

// UpdateByCode implements repositories.StationRepository
func (r *StationRepository) UpdateByCode(ctx context.Context, code string, patch entities.StationPatch) (*entities.Station, error) {
	if patch.IsEmpty() {
		return r.GetByCode(ctx, code)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var station entities.Station
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"stationCode": code}, bson.M{"$set": patch}, opts).Decode(&station)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFoundf("station %s", code)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewValidationError("stationCode", "station code already exists")
		}
		return nil, fmt.Errorf("failed to update station %s: %w", code, err)
	}

	r.logger.Debug("Station updated", zap.String("station_code", code))
	return &station, nil
}

// DeleteByCode implements repositories.StationRepository
func (r *StationRepository) DeleteByCode(ctx context.Context, code string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"stationCode": code})
	if err != nil {
		return fmt.Errorf("failed to delete station %s: %w", code, err)
	}
	if result.DeletedCount == 0 {
		return domain.NotFoundf("station %s", code)
	}

	r.logger.Info("Station deleted", zap.String("station_code", code))
	return nil
}
