package settings

import (
	"path/filepath"
	"sync"
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
	// Busy timeout keeps the concurrent first-run test from tripping over
	// transient SQLITE_BUSY instead of exercising the logical race.
	dbPath := filepath.Join(t.TempDir(), "test_settings.db") + "?_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Settings{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db, livequery.NewBus()), db
}

func TestRepository_Get_NilBeforeInitialization(t *testing.T) {
	repo, _ := setupTestDB(t)

	current, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestRepository_EnsureDefault_CreatesSingleton(t *testing.T) {
	repo, _ := setupTestDB(t)

	created, err := repo.EnsureDefault()
	require.NoError(t, err)
	assert.Equal(t, entities.SettingsKey, created.Key)
	assert.False(t, created.OnboardingComplete)

	current, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.False(t, current.OnboardingComplete)
}

func TestRepository_EnsureDefault_KeepsExistingValues(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.EnsureDefault()
	require.NoError(t, err)
	_, err = repo.CompleteOnboarding()
	require.NoError(t, err)

	current, err := repo.EnsureDefault()
	require.NoError(t, err)
	assert.True(t, current.OnboardingComplete)
}

func TestRepository_EnsureDefault_ConcurrentFirstRun(t *testing.T) {
	repo, db := setupTestDB(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.EnsureDefault()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&entities.Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	current, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.False(t, current.OnboardingComplete)
}

func TestRepository_Update_NotFoundBeforeInitialization(t *testing.T) {
	repo, _ := setupTestDB(t)

	done := true
	_, err := repo.Update(UpdateInput{OnboardingComplete: &done})

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, "Settings not found", err.Error())
}

func TestRepository_CompleteOnboarding(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.EnsureDefault()
	require.NoError(t, err)

	updated, err := repo.CompleteOnboarding()
	require.NoError(t, err)
	assert.True(t, updated.OnboardingComplete)

	current, err := repo.Get()
	require.NoError(t, err)
	assert.True(t, current.OnboardingComplete)
}
