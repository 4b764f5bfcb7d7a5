package vehicles

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chargelog/chargelog/internal/database"
	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/livequery"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	dbPath := filepath.Join(t.TempDir(), "test_vehicles.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Vehicle{}, &entities.ChargingSession{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db, livequery.NewBus()), db
}

func TestRepository_Create_AssignsDefaults(t *testing.T) {
	repo, _ := setupTestDB(t)

	vehicle, err := repo.Create(CreateInput{Make: "Kia", Model: "EV6"})
	require.NoError(t, err)

	assert.NotEmpty(t, vehicle.ID)
	assert.Equal(t, entities.DefaultVehicleIcon, vehicle.Icon)
	assert.True(t, vehicle.IsActive)
	assert.NotZero(t, vehicle.CreatedAt)
}

func TestRepository_Create_KeepsExplicitIcon(t *testing.T) {
	repo, _ := setupTestDB(t)

	vehicle, err := repo.Create(CreateInput{Name: "Daily", Icon: "truck"})
	require.NoError(t, err)

	assert.Equal(t, "truck", vehicle.Icon)
}

func TestRepository_Get_Missing(t *testing.T) {
	repo, _ := setupTestDB(t)

	vehicle, err := repo.Get("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, vehicle)
}

func TestRepository_Update_MergesFields(t *testing.T) {
	repo, _ := setupTestDB(t)

	created, err := repo.Create(CreateInput{Make: "Kia", Model: "EV6", Year: 2022})
	require.NoError(t, err)

	name := "Family car"
	updated, err := repo.Update(created.ID, UpdateInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Family car", updated.Name)
	assert.Equal(t, "Kia", updated.Make)
	assert.Equal(t, 2022, updated.Year)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	name := "Ghost"
	_, err := repo.Update("no-such-id", UpdateInput{Name: &name})

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, "Vehicle not found", err.Error())
}

func TestRepository_Delete_BlockedBySessions(t *testing.T) {
	repo, db := setupTestDB(t)

	vehicle, err := repo.Create(CreateInput{Name: "Referenced"})
	require.NoError(t, err)

	for _, id := range []string{"s1", "s2"} {
		err := db.Create(&entities.ChargingSession{
			ID:        id,
			VehicleID: vehicle.ID,
			EnergyKwh: 10,
		}).Error
		require.NoError(t, err)
	}

	err = repo.Delete(vehicle.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrConflict)
	assert.Equal(t, "Cannot delete vehicle with 2 existing sessions", err.Error())

	current, err := repo.Get(vehicle.ID)
	require.NoError(t, err)
	assert.True(t, current.IsActive)
}

func TestRepository_Delete_SoftDeletes(t *testing.T) {
	repo, _ := setupTestDB(t)

	vehicle, err := repo.Create(CreateInput{Name: "Unreferenced"})
	require.NoError(t, err)

	err = repo.Delete(vehicle.ID)
	require.NoError(t, err)

	active, err := repo.List(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
}

func TestRepository_List_OrderedByCreation(t *testing.T) {
	repo, db := setupTestDB(t)

	older := entities.Vehicle{ID: "v-old", Name: "Old", CreatedAt: 1000, IsActive: true}
	newer := entities.Vehicle{ID: "v-new", Name: "New", CreatedAt: 2000, IsActive: true}
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&older).Error)

	list, err := repo.List(true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v-old", list[0].ID)
	assert.Equal(t, "v-new", list[1].ID)
}

func TestVehicle_DisplayName(t *testing.T) {
	named := entities.Vehicle{Name: "Daily", Make: "Kia", Model: "EV6"}
	assert.Equal(t, "Daily", named.DisplayName())

	unnamed := entities.Vehicle{Make: "Kia", Model: "EV6"}
	assert.Equal(t, "Kia EV6", unnamed.DisplayName())
}
