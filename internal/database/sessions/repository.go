// Package sessions provides database operations for charging sessions.
//
// Sessions are the leaf entity: nothing references them, so Delete removes
// the row for real. CostCents is derived from EnergyKwh and RatePerKwh and
// never trusted from caller input.
package sessions

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chargelog/chargelog/internal/database"
	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/identity"
	"github.com/chargelog/chargelog/internal/livequery"
)

// DateRange bounds ChargedAt inclusively on both ends, in epoch millis.
type DateRange struct {
	Start int64
	End   int64
}

// Filters narrow List results. All fields are optional and combine with
// AND semantics.
type Filters struct {
	VehicleID  string
	LocationID string
	Range      *DateRange
}

// CreateInput holds the caller-settable fields of a new session. Cost is
// always derived, never accepted.
type CreateInput struct {
	VehicleID  string
	LocationID string
	EnergyKwh  float64
	RatePerKwh float64
	ChargedAt  int64
	Notes      string
}

// UpdateInput is a merge patch: nil fields keep their current value. When
// EnergyKwh or RatePerKwh is present, CostCents is recomputed from the
// merged values.
type UpdateInput struct {
	VehicleID  *string
	LocationID *string
	EnergyKwh  *float64
	RatePerKwh *float64
	ChargedAt  *int64
	Notes      *string
}

// Repository handles all charging session database operations.
type Repository struct {
	db  *gorm.DB
	bus *livequery.Bus
}

// NewRepository creates a new session repository.
func NewRepository(db *gorm.DB, bus *livequery.Bus) *Repository {
	return &Repository{db: db, bus: bus}
}

// List returns sessions most recent first, narrowed by the given filters.
func (r *Repository) List(filters Filters) ([]entities.ChargingSession, error) {
	var list []entities.ChargingSession

	query := r.db.Order("charged_at DESC")
	if filters.VehicleID != "" {
		query = query.Where("vehicle_id = ?", filters.VehicleID)
	}
	if filters.LocationID != "" {
		query = query.Where("location_id = ?", filters.LocationID)
	}
	if filters.Range != nil {
		query = query.Where("charged_at >= ? AND charged_at <= ?", filters.Range.Start, filters.Range.End)
	}

	if err := query.Find(&list).Error; err != nil {
		logrus.WithError(err).Error("Failed to list sessions")
		return nil, database.Storage("Failed to list sessions")
	}
	return list, nil
}

// Get returns the session with the given id, or (nil, nil) when absent.
func (r *Repository) Get(id string) (*entities.ChargingSession, error) {
	var session entities.ChargingSession
	err := r.db.First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to get session")
		return nil, database.Storage("Failed to get session")
	}
	return &session, nil
}

// Create derives the cost and persists the session. Energy must be
// positive; the rate must not be negative (free charging is a valid rate).
func (r *Repository) Create(input CreateInput) (*entities.ChargingSession, error) {
	if input.EnergyKwh <= 0 {
		return nil, database.Invalid("Energy must be positive")
	}
	if input.RatePerKwh < 0 {
		return nil, database.Invalid("Rate must not be negative")
	}

	id, err := identity.NewID()
	if err != nil {
		return nil, err
	}

	session := entities.ChargingSession{
		ID:         id,
		VehicleID:  input.VehicleID,
		LocationID: input.LocationID,
		EnergyKwh:  input.EnergyKwh,
		RatePerKwh: input.RatePerKwh,
		CostCents:  costCents(input.EnergyKwh, input.RatePerKwh),
		ChargedAt:  input.ChargedAt,
		Notes:      input.Notes,
	}

	if err := r.db.Create(&session).Error; err != nil {
		logrus.WithError(err).Error("Failed to create session")
		return nil, database.Storage("Failed to create session")
	}

	r.bus.Publish(livequery.CollectionSessions)
	return &session, nil
}

// Update merges the patch into the stored session, recomputing the cost
// when either cost factor changed.
func (r *Repository) Update(id string, input UpdateInput) (*entities.ChargingSession, error) {
	if input.EnergyKwh != nil && *input.EnergyKwh <= 0 {
		return nil, database.Invalid("Energy must be positive")
	}
	if input.RatePerKwh != nil && *input.RatePerKwh < 0 {
		return nil, database.Invalid("Rate must not be negative")
	}

	existing, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, database.NotFound("Session not found")
	}

	if input.VehicleID != nil {
		existing.VehicleID = *input.VehicleID
	}
	if input.LocationID != nil {
		existing.LocationID = *input.LocationID
	}
	if input.EnergyKwh != nil {
		existing.EnergyKwh = *input.EnergyKwh
	}
	if input.RatePerKwh != nil {
		existing.RatePerKwh = *input.RatePerKwh
	}
	if input.ChargedAt != nil {
		existing.ChargedAt = *input.ChargedAt
	}
	if input.Notes != nil {
		existing.Notes = *input.Notes
	}

	if input.EnergyKwh != nil || input.RatePerKwh != nil {
		existing.CostCents = costCents(existing.EnergyKwh, existing.RatePerKwh)
	}

	if err := r.db.Save(existing).Error; err != nil {
		logrus.WithError(err).Error("Failed to update session")
		return nil, database.Storage("Failed to update session")
	}

	r.bus.Publish(livequery.CollectionSessions)
	return existing, nil
}

// Delete removes the session permanently.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&entities.ChargingSession{}, "id = ?", id)
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Failed to delete session")
		return database.Storage("Failed to delete session")
	}
	if result.RowsAffected == 0 {
		return database.NotFound("Session not found")
	}

	r.bus.Publish(livequery.CollectionSessions)
	return nil
}

// costCents computes round(energyKwh * ratePerKwh * 100) exactly, rounding
// half away from zero.
func costCents(energyKwh, ratePerKwh float64) int64 {
	return decimal.NewFromFloat(energyKwh).
		Mul(decimal.NewFromFloat(ratePerKwh)).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
