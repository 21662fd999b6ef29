package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satriahrh/stationcast/domain"
	"github.com/satriahrh/stationcast/domain/entities"
)

func TestMemoryStationRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		repo := NewMemoryStationRepository()
		station := entities.NewStation("New Delhi", "NDLS", "", []string{"12301"})

		require.NoError(t, repo.Create(ctx, station))
		assert.False(t, station.ID.IsZero(), "Create should assign an ID")

		got, err := repo.GetByCode(ctx, "NDLS")
		require.NoError(t, err)
		assert.Equal(t, station.ID, got.ID)
		assert.Equal(t, []string{"12301"}, got.TrainNumbers())

		// Returned copies are detached from the store
		got.Trains[0].TrainNumber = "99999"
		again, err := repo.GetByCode(ctx, "NDLS")
		require.NoError(t, err)
		assert.Equal(t, "12301", again.Trains[0].TrainNumber)
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		repo := NewMemoryStationRepository()
		require.NoError(t, repo.Create(ctx, entities.NewStation("New Delhi", "NDLS", "", nil)))

		err := repo.Create(ctx, entities.NewStation("Another", "NDLS", "", nil))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewMemoryStationRepository()

		_, err := repo.GetByCode(ctx, "XXX")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = repo.UpdateByCode(ctx, "XXX", entities.StationPatch{})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, repo.DeleteByCode(ctx, "XXX"), domain.ErrNotFound)
	})

	t.Run("ListKeepsInsertionOrder", func(t *testing.T) {
		repo := NewMemoryStationRepository()
		for _, code := range []string{"NDLS", "CNB", "HWH"} {
			require.NoError(t, repo.Create(ctx, entities.NewStation(code, code, "", nil)))
		}
		require.NoError(t, repo.DeleteByCode(ctx, "CNB"))

		stations, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, stations, 2)
		assert.Equal(t, "NDLS", stations[0].StationCode)
		assert.Equal(t, "HWH", stations[1].StationCode)
	})

	t.Run("GetByIDsSkipsMissing", func(t *testing.T) {
		repo := NewMemoryStationRepository()
		ndls := entities.NewStation("New Delhi", "NDLS", "", nil)
		cnb := entities.NewStation("Kanpur", "CNB", "", nil)
		require.NoError(t, repo.Create(ctx, ndls))
		require.NoError(t, repo.Create(ctx, cnb))

		stations, err := repo.GetByIDs(ctx, []primitive.ObjectID{cnb.ID, primitive.NewObjectID(), ndls.ID})
		require.NoError(t, err)
		require.Len(t, stations, 2)
		assert.Equal(t, "NDLS", stations[0].StationCode)
		assert.Equal(t, "CNB", stations[1].StationCode)
	})

	t.Run("UpdateByCode", func(t *testing.T) {
		repo := NewMemoryStationRepository()
		require.NoError(t, repo.Create(ctx, entities.NewStation("New Delhi", "NDLS", "", nil)))
		require.NoError(t, repo.Create(ctx, entities.NewStation("Kanpur", "CNB", "", nil)))

		newCode := "DLI"
		updated, err := repo.UpdateByCode(ctx, "NDLS", entities.StationPatch{StationCode: &newCode})
		require.NoError(t, err)
		assert.Equal(t, "DLI", updated.StationCode)

		_, err = repo.GetByCode(ctx, "NDLS")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.GetByCode(ctx, "DLI")
		assert.NoError(t, err)

		taken := "CNB"
		_, err = repo.UpdateByCode(ctx, "DLI", entities.StationPatch{StationCode: &taken})
		assert.True(t, domain.IsValidation(err))
	})
}
