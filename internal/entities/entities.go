package entities

// Vehicle is a car the user charges. Soft-deleted vehicles keep their
// historical sessions and stay queryable with IsActive=false.
type Vehicle struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:100" json:"name,omitempty"`
	Make      string `gorm:"size:100" json:"make,omitempty"`
	Model     string `gorm:"size:100" json:"model,omitempty"`
	Year      int    `json:"year,omitempty"`
	Icon      string `gorm:"size:50" json:"icon"`
	CreatedAt int64  `gorm:"index" json:"created_at"` // epoch millis
	IsActive  bool   `gorm:"index" json:"is_active"`
}

// DisplayName returns the user-facing name: the custom name if set,
// otherwise "{make} {model}".
func (v Vehicle) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Make + " " + v.Model
}

// Location is a place where charging happens, with a default rate used to
// prefill new sessions.
type Location struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Name        string  `gorm:"size:100" json:"name"`
	Icon        string  `gorm:"size:50" json:"icon"`
	Color       string  `gorm:"size:20" json:"color"`
	DefaultRate float64 `json:"default_rate"` // currency per kWh, >= 0
	SortOrder   int     `json:"order"`        // presentation order for seeded rows
	CreatedAt   int64   `gorm:"index" json:"created_at"`
	IsActive    bool    `gorm:"index" json:"is_active"`
}

// ChargingSession is one charge event. CostCents is derived from
// EnergyKwh and RatePerKwh and is never accepted from callers.
type ChargingSession struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	VehicleID  string  `gorm:"size:36;index;index:idx_sessions_vehicle_charged,priority:1" json:"vehicle_id"`
	LocationID string  `gorm:"size:36;index" json:"location_id"`
	EnergyKwh  float64 `json:"energy_kwh"`
	RatePerKwh float64 `json:"rate_per_kwh"`
	CostCents  int64   `json:"cost_cents"`
	ChargedAt  int64   `gorm:"index;index:idx_sessions_vehicle_charged,priority:2" json:"charged_at"`
	Notes      string  `gorm:"type:text" json:"notes,omitempty"`
}

// Settings is a single-row table addressed by a fixed key.
type Settings struct {
	Key                string `gorm:"primaryKey;size:100" json:"key"`
	OnboardingComplete bool   `json:"onboarding_complete"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (Location) TableName() string {
	return "locations"
}

func (ChargingSession) TableName() string {
	return "charging_sessions"
}

func (Settings) TableName() string {
	return "settings"
}
