package adapters

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/entities"
	"github.com/satriahrh/stationcast/domain/repositories"
)

// MemoryStationRepository is an in-memory implementation of StationRepository.
// It is used with STORE_DRIVER=memory and as the substituted store in tests.
type MemoryStationRepository struct {
	mu       sync.RWMutex
	stations map[primitive.ObjectID]*entities.Station // id -> station mapping
	codes    map[string]primitive.ObjectID            // station_code -> id mapping
	order    []primitive.ObjectID                     // insertion order for List
}

var _ repositories.StationRepository = (*MemoryStationRepository)(nil)

// NewMemoryStationRepository creates a new in-memory station repository
func NewMemoryStationRepository() *MemoryStationRepository {
	return &MemoryStationRepository{
		stations: make(map[primitive.ObjectID]*entities.Station),
		codes:    make(map[string]primitive.ObjectID),
	}
}

// Create implements StationRepository interface
func (m *MemoryStationRepository) Create(ctx context.Context, station *entities.Station) error {
	if station == nil {
		return errors.New("station cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.codes[station.StationCode]; exists {
		return domain.NewValidationError("stationCode",
			fmt.Sprintf("station with code %s already exists", station.StationCode))
	}

	if station.ID.IsZero() {
		station.ID = primitive.NewObjectID()
	}

	m.stations[station.ID] = copyStation(station)
	m.codes[station.StationCode] = station.ID
	m.order = append(m.order, station.ID)
	return nil
}

// GetByCode implements StationRepository interface
func (m *MemoryStationRepository) GetByCode(ctx context.Context, code string) (*entities.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.codes[code]
	if !exists {
		return nil, domain.NotFoundf("station %s", code)
	}
	return copyStation(m.stations[id]), nil
}

// GetByIDs implements StationRepository interface
func (m *MemoryStationRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entities.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*entities.Station, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		station, exists := m.stations[id]
		if !exists || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, copyStation(station))
	}

	// Match the store's natural (insertion) order rather than the request order
	sort.SliceStable(result, func(i, j int) bool {
		return m.position(result[i].ID) < m.position(result[j].ID)
	})
	return result, nil
}

// List implements StationRepository interface
func (m *MemoryStationRepository) List(ctx context.Context) ([]*entities.Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*entities.Station, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, copyStation(m.stations[id]))
	}
	return result, nil
}

// UpdateByCode implements StationRepository interface
func (m *MemoryStationRepository) UpdateByCode(ctx context.Context, code string, patch entities.StationPatch) (*entities.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, exists := m.codes[code]
	if !exists {
		return nil, domain.NotFoundf("station %s", code)
	}

	if patch.StationCode != nil && *patch.StationCode != code {
		if _, taken := m.codes[*patch.StationCode]; taken {
			return nil, domain.NewValidationError("stationCode", "station code already exists")
		}
	}

	updated := copyStation(m.stations[id])
	patch.Apply(updated)

	delete(m.codes, code)
	m.codes[updated.StationCode] = id
	m.stations[id] = updated

	return copyStation(updated), nil
}

// DeleteByCode implements StationRepository interface
func (m *MemoryStationRepository) DeleteByCode(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, exists := m.codes[code]
	if !exists {
		return domain.NotFoundf("station %s", code)
	}

	delete(m.codes, code)
	delete(m.stations, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStationRepository) position(id primitive.ObjectID) int {
	for i, existing := range m.order {
		if existing == id {
			return i
		}
	}
	return len(m.order)
}

// copyStation returns a deep copy to prevent external modifications
func copyStation(s *entities.Station) *entities.Station {
	c := *s
	c.Trains = append([]entities.TrainRef(nil), s.Trains...)
	if c.Trains == nil {
		c.Trains = []entities.TrainRef{}
	}
	return &c
}
