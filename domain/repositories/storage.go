package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satriahrh/stationcast/domain/entities"
)

// StationRepository defines data access methods for stations
type StationRepository interface {
	// Create inserts the station and sets its ID. A duplicate station code
	// is reported as a domain.ValidationError.
	Create(ctx context.Context, station *entities.Station) error
	GetByCode(ctx context.Context, code string) (*entities.Station, error)
	// GetByIDs returns the stations that still exist; missing ids are skipped
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entities.Station, error)
	List(ctx context.Context) ([]*entities.Station, error)
	UpdateByCode(ctx context.Context, code string, patch entities.StationPatch) (*entities.Station, error)
	DeleteByCode(ctx context.Context, code string) error
}

// TrainRepository defines data access methods for trains
type TrainRepository interface {
	// Create inserts the train and sets its ID. A duplicate train number
	// is reported as a domain.ValidationError.
	Create(ctx context.Context, train *entities.Train) error
	GetByNumber(ctx context.Context, number string) (*entities.Train, error)
	GetByNumbers(ctx context.Context, numbers []string) ([]*entities.Train, error)
	// Update replaces the stored train document matching train.ID
	Update(ctx context.Context, train *entities.Train) error
}
