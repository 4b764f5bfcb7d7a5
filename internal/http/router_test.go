package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargelog/chargelog/internal/database"
	"github.com/chargelog/chargelog/internal/database/locations"
	"github.com/chargelog/chargelog/internal/database/sessions"
	"github.com/chargelog/chargelog/internal/database/settings"
	"github.com/chargelog/chargelog/internal/database/vehicles"
	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/initializer"
	"github.com/chargelog/chargelog/internal/stats"
)

type testApp struct {
	router    *gin.Engine
	sequencer *initializer.Sequencer
	sessions  *sessions.Repository
	vehicles  *vehicles.Repository
}

func setupTestApp(t *testing.T, initialize bool) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test_http.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	vehiclesRepo := vehicles.NewRepository(db.DB, db.Bus)
	locationsRepo := locations.NewRepository(db.DB, db.Bus)
	sessionsRepo := sessions.NewRepository(db.DB, db.Bus)
	settingsRepo := settings.NewRepository(db.DB, db.Bus)

	sequencer := initializer.New(db.DB, settingsRepo, locationsRepo)
	if initialize {
		state, initErr := sequencer.Initialize()
		require.NoError(t, initErr)
		require.Equal(t, initializer.StateReady, state)
	}

	router := NewRouter(RouterConfig{
		Sequencer: sequencer,
		Bus:       db.Bus,
		Vehicles:  vehiclesRepo,
		Locations: locationsRepo,
		Sessions:  sessionsRepo,
		Settings:  settingsRepo,
		Stats:     stats.NewService(sessionsRepo, vehiclesRepo, locationsRepo),
	})

	return testApp{router: router, sequencer: sequencer, sessions: sessionsRepo, vehicles: vehiclesRepo}
}

func (app testApp) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	app.router.ServeHTTP(w, req)
	return w
}

func TestRouter_GatesDataRoutesUntilReady(t *testing.T) {
	app := setupTestApp(t, false)

	w := app.request(t, "GET", "/api/vehicles", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// The status endpoint stays reachable.
	w = app.request(t, "GET", "/api/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, false, status["is_initialized"])
	assert.Equal(t, true, status["needs_onboarding"])
}

func TestRouter_StatusAfterInitialize(t *testing.T) {
	app := setupTestApp(t, true)

	w := app.request(t, "GET", "/api/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, true, status["is_initialized"])
	assert.Equal(t, "ready", status["state"])
}

func TestVehiclesController_CreateAndGet(t *testing.T) {
	app := setupTestApp(t, true)

	w := app.request(t, "POST", "/api/vehicles", gin.H{"make": "Kia", "model": "EV6"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created entities.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, entities.DefaultVehicleIcon, created.Icon)
	assert.True(t, created.IsActive)

	w = app.request(t, "GET", "/api/vehicles/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVehiclesController_UpdateMissingIs404(t *testing.T) {
	app := setupTestApp(t, true)

	w := app.request(t, "PATCH", "/api/vehicles/no-such-id", gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Vehicle not found")
}

func TestVehiclesController_DeleteGuardIs409(t *testing.T) {
	app := setupTestApp(t, true)

	vehicle, err := app.vehicles.Create(vehicles.CreateInput{Name: "Referenced"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = app.sessions.Create(sessions.CreateInput{
			VehicleID: vehicle.ID, LocationID: "l1", EnergyKwh: 10, RatePerKwh: 0.15, ChargedAt: int64(i),
		})
		require.NoError(t, err)
	}

	w := app.request(t, "DELETE", "/api/vehicles/"+vehicle.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete vehicle with 2 existing sessions")
}

func TestLocationsController_NegativeRateIs400(t *testing.T) {
	app := setupTestApp(t, true)

	w := app.request(t, "POST", "/api/locations", gin.H{"name": "Bad", "default_rate": -0.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsController_ListWithFilters(t *testing.T) {
	app := setupTestApp(t, true)

	fixtures := []sessions.CreateInput{
		{VehicleID: "vehicle-a", LocationID: "location-x", EnergyKwh: 10, RatePerKwh: 0.1, ChargedAt: 1000},
		{VehicleID: "vehicle-a", LocationID: "location-y", EnergyKwh: 10, RatePerKwh: 0.1, ChargedAt: 2000},
		{VehicleID: "vehicle-b", LocationID: "location-x", EnergyKwh: 10, RatePerKwh: 0.1, ChargedAt: 3000},
	}
	for _, fixture := range fixtures {
		_, err := app.sessions.Create(fixture)
		require.NoError(t, err)
	}

	w := app.request(t, "GET", "/api/sessions?vehicle_id=vehicle-a&location_id=location-x", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sessions []entities.ChargingSession `json:"sessions"`
		Count    int                        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "vehicle-a", body.Sessions[0].VehicleID)
	assert.Equal(t, "location-x", body.Sessions[0].LocationID)

	w = app.request(t, "GET", fmt.Sprintf("/api/sessions?from=%d&to=%d", 1000, 2000), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)

	w = app.request(t, "GET", "/api/sessions?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsController_CompleteOnboarding(t *testing.T) {
	app := setupTestApp(t, true)

	w := app.request(t, "POST", "/api/settings/complete-onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var current entities.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.True(t, current.OnboardingComplete)

	w = app.request(t, "GET", "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.True(t, current.OnboardingComplete)
}

func TestStatsController_Overview(t *testing.T) {
	app := setupTestApp(t, true)

	_, err := app.sessions.Create(sessions.CreateInput{
		VehicleID: "v1", LocationID: "l1", EnergyKwh: 10, RatePerKwh: 0.15, ChargedAt: 1000,
	})
	require.NoError(t, err)

	w := app.request(t, "GET", "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Overview stats.Overview `json:"overview"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Overview.SessionCount)
	assert.Equal(t, int64(150), body.Overview.TotalCostCents)
}
