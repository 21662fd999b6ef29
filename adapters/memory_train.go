package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/domain/repositories"
)

// MemoryTrainRepository is an in-memory implementation of TrainRepository
type MemoryTrainRepository struct {
	mu      sync.RWMutex
	trains  map[primitive.ObjectID]*entities.Train // id -> train mapping
	numbers map[string]primitive.ObjectID          // train_number -> id mapping
	order   []primitive.ObjectID
}

var _ repositories.TrainRepository = (*MemoryTrainRepository)(nil)

// NewMemoryTrainRepository creates a new in-memory train repository
func NewMemoryTrainRepository() *MemoryTrainRepository {
	return &MemoryTrainRepository{
		trains:  make(map[primitive.ObjectID]*entities.Train),
		numbers: make(map[string]primitive.ObjectID),
	}
}

// Create implements TrainRepository interface
func (m *MemoryTrainRepository) Create(ctx context.Context, train *entities.Train) error {
	if train == nil {
		return errors.New("train cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.numbers[train.TrainNumber]; exists {
		return domain.NewValidationError("trainNumber",
			fmt.Sprintf("train with number %s already exists", train.TrainNumber))
	}

	if train.ID.IsZero() {
		train.ID = primitive.NewObjectID()
	}

	m.trains[train.ID] = copyTrain(train)
	m.numbers[train.TrainNumber] = train.ID
	m.order = append(m.order, train.ID)
	return nil
}

// GetByNumber implements TrainRepository interface
func (m *MemoryTrainRepository) GetByNumber(ctx context.Context, number string) (*entities.Train, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.numbers[number]
	if !exists {
		return nil, domain.NotFoundf("train %s", number)
	}
	return copyTrain(m.trains[id]), nil
}

// GetByNumbers implements TrainRepository interface
func (m *MemoryTrainRepository) GetByNumbers(ctx context.Context, numbers []string) ([]*entities.Train, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(numbers))
	for _, number := range numbers {
		wanted[number] = true
	}

	result := make([]*entities.Train, 0, len(numbers))
	for _, id := range m.order {
		train := m.trains[id]
		if wanted[train.TrainNumber] {
			result = append(result, copyTrain(train))
		}
	}
	return result, nil
}

// Update implements TrainRepository interface
func (m *MemoryTrainRepository) Update(ctx context.Context, train *entities.Train) error {
	if train == nil {
		return errors.New("train cannot be nil")
	}
	if train.ID.IsZero() {
		return errors.New("train ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.trains[train.ID]
	if !exists {
		return domain.NotFoundf("train %s", train.TrainNumber)
	}

	if existing.TrainNumber != train.TrainNumber {
		if _, taken := m.numbers[train.TrainNumber]; taken {
			return domain.NewValidationError("trainNumber", "train number already exists")
		}
		delete(m.numbers, existing.TrainNumber)
		m.numbers[train.TrainNumber] = train.ID
	}

	m.trains[train.ID] = copyTrain(train)
	return nil
}

func copyTrain(t *entities.Train) *entities.Train {
	c := *t
	c.StationIDs = append([]primitive.ObjectID(nil), t.StationIDs...)
	if c.StationIDs == nil {
		c.StationIDs = []primitive.ObjectID{}
	}
	return &c
}
