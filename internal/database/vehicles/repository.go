// Package vehicles provides database operations for vehicle management.
//
// Vehicles are never hard-deleted: Delete soft-deletes by clearing IsActive,
// and is rejected outright while any charging session still references the
// vehicle.
//
// # Usage
//
//	repo := vehicles.NewRepository(db, bus)
//	list, err := repo.List(true)
package vehicles

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

// CreateInput holds the caller-settable fields of a new vehicle. ID,
// CreatedAt and IsActive are assigned by Create.
type CreateInput struct {
	Name  string
	Make  string
	Model string
	Year  int
	Icon  string
}

// UpdateInput is a merge patch: nil fields keep their current value.
type UpdateInput struct {
	Name     *string
	Make     *string
	Model    *string
	Year     *int
	Icon     *string
	IsActive *bool
}

// Repository handles all vehicle database operations.
type Repository struct {
	db  *gorm.DB
	bus *livequery.Bus
}

// NewRepository creates a new vehicle repository.
func NewRepository(db *gorm.DB, bus *livequery.Bus) *Repository {
	return &Repository{db: db, bus: bus}
}

// List returns vehicles ordered by creation time, oldest first. With
// activeOnly set, soft-deleted vehicles are excluded.
func (r *Repository) List(activeOnly bool) ([]entities.Vehicle, error) {
	var list []entities.Vehicle

	query := r.db.Order("created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&list).Error; err != nil {
		logrus.WithError(err).Error("Failed to list vehicles")
		return nil, database.Storage("Failed to list vehicles")
	}
	return list, nil
}

// Get returns the vehicle with the given id, or (nil, nil) when absent.
func (r *Repository) Get(id string) (*entities.Vehicle, error) {
	var vehicle entities.Vehicle
	err := r.db.First(&vehicle, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to get vehicle")
		return nil, database.Storage("Failed to get vehicle")
	}
	return &vehicle, nil
}

// Create assigns id, creation time and active state and persists the
// vehicle. An omitted icon falls back to the standard vehicle glyph.
func (r *Repository) Create(input CreateInput) (*entities.Vehicle, error) {
	id, err := identity.NewID()
	if err != nil {
		return nil, err
	}

	icon := input.Icon
	if icon == "" {
		icon = entities.DefaultVehicleIcon
	}

	vehicle := entities.Vehicle{
		ID:        id,
		Name:      input.Name,
		Make:      input.Make,
		Model:     input.Model,
		Year:      input.Year,
		Icon:      icon,
		CreatedAt: time.Now().UnixMilli(),
		IsActive:  true,
	}

	if err := r.db.Create(&vehicle).Error; err != nil {
		logrus.WithError(err).Error("Failed to create vehicle")
		return nil, database.Storage("Failed to create vehicle")
	}

	r.bus.Publish(livequery.CollectionVehicles)
	return &vehicle, nil
}

// Update merges the patch into the stored vehicle and writes it back.
// Concurrent updates to the same id are last-write-wins; there is no
// cross-operation lock (single-user store).
func (r *Repository) Update(id string, input UpdateInput) (*entities.Vehicle, error) {
	existing, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, database.NotFound("Vehicle not found")
	}

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Make != nil {
		existing.Make = *input.Make
	}
	if input.Model != nil {
		existing.Model = *input.Model
	}
	if input.Year != nil {
		existing.Year = *input.Year
	}
	if input.Icon != nil {
		existing.Icon = *input.Icon
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := r.db.Save(existing).Error; err != nil {
		logrus.WithError(err).Error("Failed to update vehicle")
		return nil, database.Storage("Failed to update vehicle")
	}

	r.bus.Publish(livequery.CollectionVehicles)
	return existing, nil
}

// Delete soft-deletes the vehicle. It is rejected while any session still
// references the vehicle; the failure message names the exact count.
func (r *Repository) Delete(id string) error {
	var count int64
	err := r.db.Model(&entities.ChargingSession{}).
		Where("vehicle_id = ?", id).
		Count(&count).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to count sessions for vehicle")
		return database.Storage("Failed to delete vehicle")
	}

	if count > 0 {
		return database.Conflict(fmt.Sprintf("Cannot delete vehicle with %d existing sessions", count))
	}

	inactive := false
	if _, err := r.Update(id, UpdateInput{IsActive: &inactive}); err != nil {
		return err
	}
	return nil
}
