// Package locations provides database operations for charging locations.
//
// Locations share the vehicle lifecycle: soft delete only, rejected while
// referenced by sessions. They additionally carry a presentation order used
// by the default seed rows.
package locations

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chargelog/chargelog/internal/database"
	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/identity"
	"github.com/chargelog/chargelog/internal/livequery"
)

// CreateInput holds the caller-settable fields of a new location.
type CreateInput struct {
	Name        string
	Icon        string
	Color       string
	DefaultRate float64
	SortOrder   int
}

// UpdateInput is a merge patch: nil fields keep their current value.
type UpdateInput struct {
	Name        *string
	Icon        *string
	Color       *string
	DefaultRate *float64
	SortOrder   *int
	IsActive    *bool
}

// Repository handles all location database operations.
type Repository struct {
	db  *gorm.DB
	bus *livequery.Bus
}

// NewRepository creates a new location repository.
func NewRepository(db *gorm.DB, bus *livequery.Bus) *Repository {
	return &Repository{db: db, bus: bus}
}

// List returns locations in presentation order. With activeOnly set,
// soft-deleted locations are excluded.
func (r *Repository) List(activeOnly bool) ([]entities.Location, error) {
	var list []entities.Location

	query := r.db.Order("sort_order ASC, created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&list).Error; err != nil {
		logrus.WithError(err).Error("Failed to list locations")
		return nil, database.Storage("Failed to list locations")
	}
	return list, nil
}

// Get returns the location with the given id, or (nil, nil) when absent.
func (r *Repository) Get(id string) (*entities.Location, error) {
	var location entities.Location
	err := r.db.First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to get location")
		return nil, database.Storage("Failed to get location")
	}
	return &location, nil
}

// Create assigns id, creation time and active state and persists the
// location. Negative default rates are rejected.
func (r *Repository) Create(input CreateInput) (*entities.Location, error) {
	if input.DefaultRate < 0 {
		return nil, database.Invalid("Default rate must not be negative")
	}

	id, err := identity.NewID()
	if err != nil {
		return nil, err
	}

	location := entities.Location{
		ID:          id,
		Name:        input.Name,
		Icon:        input.Icon,
		Color:       input.Color,
		DefaultRate: input.DefaultRate,
		SortOrder:   input.SortOrder,
		CreatedAt:   time.Now().UnixMilli(),
		IsActive:    true,
	}

	if err := r.db.Create(&location).Error; err != nil {
		logrus.WithError(err).Error("Failed to create location")
		return nil, database.Storage("Failed to create location")
	}

	r.bus.Publish(livequery.CollectionLocations)
	return &location, nil
}

// Update merges the patch into the stored location and writes it back.
func (r *Repository) Update(id string, input UpdateInput) (*entities.Location, error) {
	if input.DefaultRate != nil && *input.DefaultRate < 0 {
		return nil, database.Invalid("Default rate must not be negative")
	}

	existing, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, database.NotFound("Location not found")
	}

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Icon != nil {
		existing.Icon = *input.Icon
	}
	if input.Color != nil {
		existing.Color = *input.Color
	}
	if input.DefaultRate != nil {
		existing.DefaultRate = *input.DefaultRate
	}
	if input.SortOrder != nil {
		existing.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := r.db.Save(existing).Error; err != nil {
		logrus.WithError(err).Error("Failed to update location")
		return nil, database.Storage("Failed to update location")
	}

	r.bus.Publish(livequery.CollectionLocations)
	return existing, nil
}

// Delete soft-deletes the location. It is rejected while any session still
// references the location; the failure message names the exact count.
func (r *Repository) Delete(id string) error {
	var count int64
	err := r.db.Model(&entities.ChargingSession{}).
		Where("location_id = ?", id).
		Count(&count).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to count sessions for location")
		return database.Storage("Failed to delete location")
	}

	if count > 0 {
		return database.Conflict(fmt.Sprintf("Cannot delete location with %d existing sessions", count))
	}

	inactive := false
	if _, err := r.Update(id, UpdateInput{IsActive: &inactive}); err != nil {
		return err
	}
	return nil
}

// SeedDefaults creates the default location rows on first run. It is a
// no-op as soon as any location exists, so repeated launches never add
// duplicate seed rows.
func (r *Repository) SeedDefaults() error {
	var count int64
	if err := r.db.Model(&entities.Location{}).Count(&count).Error; err != nil {
		logrus.WithError(err).Error("Failed to count locations")
		return database.Storage("Failed to seed default locations")
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	seeded := make([]entities.Location, 0, len(entities.DefaultLocations))
	for _, seed := range entities.DefaultLocations {
		id, err := identity.NewID()
		if err != nil {
			return err
		}
		seeded = append(seeded, entities.Location{
			ID:          id,
			Name:        seed.Name,
			Icon:        seed.Icon,
			Color:       seed.Color,
			DefaultRate: seed.DefaultRate,
			SortOrder:   seed.SortOrder,
			CreatedAt:   now,
			IsActive:    true,
		})
	}

	if err := r.db.Create(&seeded).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed default locations")
		return database.Storage("Failed to seed default locations")
	}

	logrus.WithField("count", len(seeded)).Info("Seeded default locations")
	r.bus.Publish(livequery.CollectionLocations)
	return nil
}
