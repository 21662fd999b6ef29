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

const trainsCollection = "trains"

// TrainRepository implements repositories.TrainRepository using MongoDB
type TrainRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.TrainRepository = (*TrainRepository)(nil)

// NewTrainRepository creates a new MongoDB train repository
func NewTrainRepository(db *mongo.Database, logger *zap.Logger) *TrainRepository {
	return &TrainRepository{
		collection: db.Collection(trainsCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique index on trainNumber
func (r *TrainRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "trainNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create train indexes: %w", err)
	}
	return nil
}

// Create implements repositories.TrainRepository
func (r *TrainRepository) Create(ctx context.Context, train *entities.Train) error {
	if train == nil {
		return errors.New("train cannot be nil")
	}
	if train.ID.IsZero() {
		train.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, train); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("trainNumber",
				fmt.Sprintf("train with number %s already exists", train.TrainNumber))
		}
		r.logger.Error("Failed to create train", zap.Error(err), zap.String("train_number", train.TrainNumber))
		return fmt.Errorf("failed to create train: %w", err)
	}

	return nil
}

// GetByNumber implements repositories.TrainRepository
func (r *TrainRepository) GetByNumber(ctx context.Context, number string) (*entities.Train, error) {
	var train entities.Train
	err := r.collection.FindOne(ctx, bson.M{"trainNumber": number}).Decode(&train)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFoundf("train %s", number)
		}
		return nil, fmt.Errorf("failed to get train %s: %w", number, err)
	}
	return &train, nil
}

// GetByNumbers implements repositories.TrainRepository
func (r *TrainRepository) GetByNumbers(ctx context.Context, numbers []string) ([]*entities.Train, error) {
	trains := make([]*entities.Train, 0)
	if len(numbers) == 0 {
		return trains, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"trainNumber": bson.M{"$in": numbers}})
	if err != nil {
		return nil, fmt.Errorf("failed to find trains: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &trains); err != nil {
		return nil, fmt.Errorf("failed to decode trains: %w", err)
	}
	return trains, nil
}

// Update implements repositories.TrainRepository
func (r *TrainRepository) Update(ctx context.Context, train *entities.Train) error {
	if train == nil {
		return errors.New("train cannot be nil")
	}
	if train.ID.IsZero() {
		return errors.New("train ID cannot be empty")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": train.ID}, train)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("trainNumber", "train number already exists")
		}
		r.logger.Error("Failed to update train", zap.Error(err), zap.String("train_id", train.ID.Hex()))
		return fmt.Errorf("failed to update train: %w", err)
	}

	if result.MatchedCount == 0 {
		return domain.NotFoundf("train %s", train.TrainNumber)
	}

	r.logger.Debug("Train updated", zap.String("train_number", train.TrainNumber))
	return nil
}
