// Package settings provides database operations for the application
// settings singleton: a single row addressed by a fixed key, created during
// initialization and only updated afterwards.
package settings

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chargelog/chargelog/internal/database"
	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/livequery"
)

// UpdateInput is a merge patch over the singleton: nil fields keep their
// current value.
type UpdateInput struct {
	OnboardingComplete *bool
}

// Repository handles all settings database operations.
type Repository struct {
	db  *gorm.DB
	bus *livequery.Bus
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB, bus *livequery.Bus) *Repository {
	return &Repository{db: db, bus: bus}
}

// Get returns the settings singleton, or (nil, nil) before initialization
// has created it.
func (r *Repository) Get() (*entities.Settings, error) {
	var settings entities.Settings
	err := r.db.First(&settings, "key = ?", entities.SettingsKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to get settings")
		return nil, database.Storage("Failed to get settings")
	}
	return &settings, nil
}

// EnsureDefault creates the default settings row if it does not exist yet
// and returns the current singleton. Concurrent first runs can both attempt
// the create; the fixed primary key guarantees a single row, and the loser
// falls back to reading the winner's.
func (r *Repository) EnsureDefault() (*entities.Settings, error) {
	existing, err := r.Get()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	defaults := entities.DefaultSettings()
	if err := r.db.Create(&defaults).Error; err != nil {
		if database.IsConstraintViolation(err) {
			if current, getErr := r.Get(); getErr == nil && current != nil {
				return current, nil
			}
		}
		logrus.WithError(err).Error("Failed to create default settings")
		return nil, database.Storage("Failed to create settings")
	}

	r.bus.Publish(livequery.CollectionSettings)
	return &defaults, nil
}

// Update merges the patch into the singleton. It fails with a not-found
// error before initialization has created the row.
func (r *Repository) Update(input UpdateInput) (*entities.Settings, error) {
	existing, err := r.Get()
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, database.NotFound("Settings not found")
	}

	if input.OnboardingComplete != nil {
		existing.OnboardingComplete = *input.OnboardingComplete
	}

	if err := r.db.Save(existing).Error; err != nil {
		logrus.WithError(err).Error("Failed to update settings")
		return nil, database.Storage("Failed to update settings")
	}

	r.bus.Publish(livequery.CollectionSettings)
	return existing, nil
}

// CompleteOnboarding marks onboarding as finished.
func (r *Repository) CompleteOnboarding() (*entities.Settings, error) {
	done := true
	return r.Update(UpdateInput{OnboardingComplete: &done})
}
