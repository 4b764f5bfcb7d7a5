// Package stats computes dashboard aggregates over charging sessions.
package stats

import (
	"github.com/chargelog/chargelog/internal/database/locations"
	"github.com/chargelog/chargelog/internal/database/sessions"
	"github.com/chargelog/chargelog/internal/database/vehicles"
	"github.com/chargelog/chargelog/internal/entities"
)

// RecentSessionsLimit bounds the recent-sessions list on the dashboard.
const RecentSessionsLimit = 5

// LocationStat aggregates sessions charged at one location.
type LocationStat struct {
	LocationID     string  `json:"location_id"`
	Name           string  `json:"name"`
	TotalKwh       float64 `json:"total_kwh"`
	TotalCostCents int64   `json:"total_cost_cents"`
}

// Overview summarizes all recorded sessions.
type Overview struct {
	TotalKwh       float64        `json:"total_kwh"`
	TotalCostCents int64          `json:"total_cost_cents"`
	AvgRatePerKwh  float64        `json:"avg_rate_per_kwh"`
	SessionCount   int            `json:"session_count"`
	ByLocation     []LocationStat `json:"by_location"`
}

// RecentSession joins a session with the display metadata lists need.
type RecentSession struct {
	Session       entities.ChargingSession `json:"session"`
	VehicleName   string                   `json:"vehicle_name"`
	LocationName  string                   `json:"location_name"`
	LocationIcon  string                   `json:"location_icon"`
	LocationColor string                   `json:"location_color"`
}

// Service reads through the repositories; it holds no state of its own.
type Service struct {
	sessions  *sessions.Repository
	vehicles  *vehicles.Repository
	locations *locations.Repository
}

// NewService creates a stats service over the given repositories.
func NewService(sessionsRepo *sessions.Repository, vehiclesRepo *vehicles.Repository, locationsRepo *locations.Repository) *Service {
	return &Service{
		sessions:  sessionsRepo,
		vehicles:  vehiclesRepo,
		locations: locationsRepo,
	}
}

// Overview aggregates every recorded session. Sessions pointing at a
// soft-deleted or missing location are reported under "Unknown".
func (s *Service) Overview() (*Overview, error) {
	list, err := s.sessions.List(sessions.Filters{})
	if err != nil {
		return nil, err
	}

	all, err := s.locations.List(false)
	if err != nil {
		return nil, err
	}
	locationsByID := locationMap(all)

	overview := &Overview{
		SessionCount: len(list),
		ByLocation:   []LocationStat{},
	}
	perLocation := make(map[string]*LocationStat)
	var seen []string

	for _, session := range list {
		overview.TotalKwh += session.EnergyKwh
		overview.TotalCostCents += session.CostCents

		stat, ok := perLocation[session.LocationID]
		if !ok {
			name := "Unknown"
			if location, found := locationsByID[session.LocationID]; found {
				name = location.Name
			}
			stat = &LocationStat{LocationID: session.LocationID, Name: name}
			perLocation[session.LocationID] = stat
			seen = append(seen, session.LocationID)
		}
		stat.TotalKwh += session.EnergyKwh
		stat.TotalCostCents += session.CostCents
	}

	for _, id := range seen {
		overview.ByLocation = append(overview.ByLocation, *perLocation[id])
	}

	if overview.TotalKwh > 0 {
		overview.AvgRatePerKwh = float64(overview.TotalCostCents) / 100 / overview.TotalKwh
	}

	return overview, nil
}

// RecentSessions returns up to limit of the most recent sessions joined
// with vehicle and location metadata. Sessions whose references are gone
// are skipped rather than rendered half-empty.
func (s *Service) RecentSessions(limit int) ([]RecentSession, error) {
	if limit <= 0 {
		limit = RecentSessionsLimit
	}

	list, err := s.sessions.List(sessions.Filters{})
	if err != nil {
		return nil, err
	}

	allVehicles, err := s.vehicles.List(false)
	if err != nil {
		return nil, err
	}
	allLocations, err := s.locations.List(false)
	if err != nil {
		return nil, err
	}

	vehiclesByID := vehicleMap(allVehicles)
	locationsByID := locationMap(allLocations)

	recent := make([]RecentSession, 0, limit)
	for _, session := range list {
		if len(recent) >= limit {
			break
		}

		vehicle, hasVehicle := vehiclesByID[session.VehicleID]
		location, hasLocation := locationsByID[session.LocationID]
		if !hasVehicle || !hasLocation {
			continue
		}

		recent = append(recent, RecentSession{
			Session:       session,
			VehicleName:   vehicle.DisplayName(),
			LocationName:  location.Name,
			LocationIcon:  location.Icon,
			LocationColor: location.Color,
		})
	}

	return recent, nil
}

func vehicleMap(list []entities.Vehicle) map[string]entities.Vehicle {
	m := make(map[string]entities.Vehicle, len(list))
	for _, v := range list {
		m[v.ID] = v
	}
	return m
}

func locationMap(list []entities.Location) map[string]entities.Location {
	m := make(map[string]entities.Location, len(list))
	for _, l := range list {
		m[l.ID] = l
	}
	return m
}
