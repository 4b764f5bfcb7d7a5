package entities

// SettingsKey addresses the singleton settings row.
const SettingsKey = "app-settings"

// DefaultVehicleIcon is used when a vehicle is created without an icon.
const DefaultVehicleIcon = "car"

// LocationSeed is a template for a default location created on first run.
type LocationSeed struct {
	Name        string
	Icon        string
	Color       string
	DefaultRate float64
	SortOrder   int
}

// DefaultLocations are seeded once, in SortOrder, when no locations exist.
// Users can rename or deactivate them afterwards.
var DefaultLocations = []LocationSeed{
	{Name: "Home", Icon: "home", Color: "blue", DefaultRate: 0.12, SortOrder: 0},
	{Name: "Work", Icon: "building", Color: "purple", DefaultRate: 0.0, SortOrder: 1},
	{Name: "Other", Icon: "map-pin", Color: "pink", DefaultRate: 0.15, SortOrder: 2},
	{Name: "DC Fast", Icon: "zap", Color: "amber", DefaultRate: 0.35, SortOrder: 3},
}

// DefaultSettings returns the settings row created on first run.
func DefaultSettings() Settings {
	return Settings{
		Key:                SettingsKey,
		OnboardingComplete: false,
	}
}
